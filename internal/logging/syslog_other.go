//go:build windows || plan9

package logging

import (
	"errors"

	"github.com/sirupsen/logrus"
)

func newSyslogHook() (logrus.Hook, error) {
	return nil, errors.New("syslog is not supported on this platform")
}
