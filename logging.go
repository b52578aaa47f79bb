// Logging configuration for rxcore
// 日志配置：库默认只输出 warn 及以上级别，可通过 RXCORE_LOG_LEVEL 或下列函数调整
package rxcore

import (
	"github.com/rs/zerolog"

	"github.com/xinjiayu/rxcore/internal/log"
)

// LogConfig 日志配置：级别与输出
type LogConfig = log.Config

// ConfigureLogging 设置库的基础日志记录器，只有第一次显式配置生效。
// 已创建的虚拟调度器、观察者与操作符保留创建时的记录器；
// 实时调度器（包括 DefaultScheduler）在每次记录时读取当前配置。
func ConfigureLogging(cfg LogConfig) {
	log.Configure(cfg)
}

// SetLogger 替换库的基础日志记录器并返回之前的记录器
func SetLogger(logger zerolog.Logger) zerolog.Logger {
	return log.Replace(logger)
}
