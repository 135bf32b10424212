package util

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var ctrlListeners = make(map[string]*CtrlListener)
var ctrlMutex sync.Mutex

// CtrlListener accepts line-oriented commands on a unix socket and dispatches them by their first token. Each command
// is answered with "ok" or "error (...)".
//
type CtrlListener struct {
	key       string
	listener  net.Listener
	lock      sync.Mutex
	callbacks map[string][]func(string) error
	running   bool
}

// GetCtrlListener returns the listener for <root>/<id>.<pid>.sock, creating it on first use.
//
func GetCtrlListener(root, id string) (*CtrlListener, error) {
	ctrlMutex.Lock()
	defer ctrlMutex.Unlock()

	key := root + id
	if cl, found := ctrlListeners[key]; found {
		return cl, nil
	}

	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, errors.Wrapf(err, "error creating [%s]", root)
	}
	address := CtrlAddress(root, id, os.Getpid())
	unixAddress, err := net.ResolveUnixAddr("unix", address)
	if err != nil {
		return nil, errors.Wrap(err, "error resolving unix address")
	}
	listener, err := net.ListenUnix("unix", unixAddress)
	if err != nil {
		return nil, errors.Wrap(err, "error listening")
	}
	cl := &CtrlListener{key: key, listener: listener, callbacks: make(map[string][]func(string) error)}
	ctrlListeners[key] = cl
	return cl, nil
}

func CtrlAddress(root, id string, pid int) string {
	return filepath.Join(root, fmt.Sprintf("%s.%d.sock", id, pid))
}

func (self *CtrlListener) Addr() net.Addr {
	return self.listener.Addr()
}

func (self *CtrlListener) AddCallback(keyword string, f func(string) error) {
	self.lock.Lock()
	defer self.lock.Unlock()
	self.callbacks[keyword] = append(self.callbacks[keyword], f)
}

func (self *CtrlListener) Start() {
	self.lock.Lock()
	defer self.lock.Unlock()

	if !self.running {
		self.running = true
		go self.run()
	}
}

func (self *CtrlListener) Close() error {
	ctrlMutex.Lock()
	delete(ctrlListeners, self.key)
	ctrlMutex.Unlock()
	return self.listener.Close()
}

func (self *CtrlListener) run() {
	logrus.Infof("[%s] started", self.listener.Addr())
	defer logrus.Infof("[%s] exited", self.listener.Addr())

	for {
		conn, err := self.listener.Accept()
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Temporary() {
				logrus.Errorf("error accepting ctrl connection (%v)", err)
				continue
			}
			return
		}
		go self.handle(conn)
	}
}

func (self *CtrlListener) handle(conn net.Conn) {
	logrus.Debugf("new connection for [%s]", conn.LocalAddr())
	defer logrus.Debugf("ended connection for [%s]", conn.LocalAddr())
	defer func() { _ = conn.Close() }()

	r := bufio.NewReader(conn)
	for {
		line, err := r.ReadString('\n')
		if err == io.EOF {
			return
		} else if err != nil {
			logrus.Errorf("error reading (%v)", err)
			return
		}

		line = strings.TrimSpace(line)
		if err := self.dispatch(line); err != nil {
			logrus.Errorf("error executing [%s] (%v)", line, err)
			if _, err := conn.Write([]byte(fmt.Sprintf("error (%s)\n", err))); err != nil {
				logrus.Errorf("error responding (%v)", err)
				return
			}
		} else {
			if _, err := conn.Write([]byte("ok\n")); err != nil {
				logrus.Errorf("error responding (%v)", err)
				return
			}
		}
	}
}

func (self *CtrlListener) dispatch(line string) error {
	tokens := strings.Fields(line)
	if len(tokens) < 1 {
		return errors.New("no tokens")
	}
	self.lock.Lock()
	fs, found := self.callbacks[tokens[0]]
	self.lock.Unlock()
	if !found {
		return errors.Errorf("no callback for [%s]", tokens[0])
	}
	for _, f := range fs {
		if err := f(line); err != nil {
			return err
		}
	}
	return nil
}
