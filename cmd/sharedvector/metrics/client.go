package metrics

import (
	"bufio"
	"fmt"
	"net"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func init() {
	metricsCmd.AddCommand(clientCmd)
}

var clientCmd = &cobra.Command{
	Use:   "client <socketPath> <start|stop|write|clean>",
	Short: "Send a command to a metrics instrument control socket",
	Args:  cobra.ExactArgs(2),
	Run:   client,
}

func client(_ *cobra.Command, args []string) {
	response, err := send(args[0], args[1])
	if err != nil {
		logrus.Fatalf("error (%v)", err)
	}
	if response == "ok" {
		logrus.Infof("received 'ok'")
	} else {
		logrus.Errorf("'%s' failed: %s", args[1], response)
	}
}

func send(path, command string) (string, error) {
	addr, err := net.ResolveUnixAddr("unix", path)
	if err != nil {
		return "", errors.Wrapf(err, "error resolving [%s]", path)
	}
	conn, err := net.DialUnix("unix", nil, addr)
	if err != nil {
		return "", errors.Wrapf(err, "error dialing [%s]", path)
	}
	defer func() { _ = conn.Close() }()

	if _, err := conn.Write([]byte(fmt.Sprintf("%s\n", command))); err != nil {
		return "", errors.Wrap(err, "error writing command")
	}
	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		return "", errors.Wrap(err, "error reading response")
	}
	return strings.TrimSpace(line), nil
}
