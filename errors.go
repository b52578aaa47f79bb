// Error definitions for rxcore
// 错误定义
package rxcore

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument 必需参数缺失（nil source、trigger 或 scheduler）
	ErrInvalidArgument = errors.New("rxcore: invalid argument")

	// ErrSchedulerRunning 调度器已在运行中
	ErrSchedulerRunning = errors.New("rxcore: virtual scheduler is already running")
)

func invalidArgument(name string) error {
	return fmt.Errorf("%w: %s must not be nil", ErrInvalidArgument, name)
}
