package queue

import "fmt"

// BrokerUnavailableError 表示 broker 不可达（连接失败、探活超时等基础设施故障）。
// 这类错误允许上层走降级路径，不视为任务失败。
type BrokerUnavailableError struct {
	Route string
	Err   error
}

func (e *BrokerUnavailableError) Error() string {
	return fmt.Sprintf("task broker unavailable: %v", e.Err)
}

func (e *BrokerUnavailableError) Unwrap() error {
	return e.Err
}

// DispatchRejectedError 表示 broker 可达但投递被拒绝（序列化失败、入队失败等）。
// 这类错误属于真实的投递失败，上层必须将任务置为失败。
type DispatchRejectedError struct {
	Route string
	Err   error
}

func (e *DispatchRejectedError) Error() string {
	return fmt.Sprintf("dispatch rejected for route %s: %v", e.Route, e.Err)
}

func (e *DispatchRejectedError) Unwrap() error {
	return e.Err
}
