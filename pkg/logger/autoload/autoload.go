// Package autoload initialises the global logger from LOG_* environment
// variables when imported for side effects.
package autoload

import (
	configx "github.com/tanpawarit/Chative-Restaurant-Ordering/pkg/config"
	logx "github.com/tanpawarit/Chative-Restaurant-Ordering/pkg/logger"
)

func init() {
	conf, err := configx.New[logx.Config]("LOG")
	if err != nil {
		logx.Init()
		return
	}
	logx.Init(*conf)
}
