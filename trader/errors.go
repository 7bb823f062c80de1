// Package trader 把纯决策（对账轮）与副作用（提交）拆开编排。
// 决策组件只返回意图与跳过记录；任何“记日志后继续”的处理只允许
// 出现在轮级别，不允许出现在纯决策组件内部。
package trader

import "fmt"

// SyncError 快照获取失败或返回了畸形数据。分类正确性依赖完整快照，
// 因此本轮必须整体中止，绝不允许在部分数据上继续。
type SyncError struct {
	Op  string
	Err error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("sync failure during %s: %v", e.Op, e.Err)
}

func (e *SyncError) Unwrap() error { return e.Err }

// SkipKind 意图被丢弃的原因分类。
type SkipKind string

const (
	SkipPlanning            SkipKind = "PLANNING"
	SkipDuplicate           SkipKind = "DUPLICATE"
	SkipInsufficientBalance SkipKind = "INSUFFICIENT_BALANCE"
)

// Skip 一条被丢弃的意图及其原因；丢弃不升级为错误，但必须留痕。
type Skip struct {
	Kind          SkipKind
	ClientOrderID string
	Reason        string
}

func (s Skip) String() string {
	return fmt.Sprintf("%s %s: %s", s.Kind, s.ClientOrderID, s.Reason)
}

// SubmitError 交易所拒绝了某一笔提交；只影响该笔，本轮继续。
// 同批次其余意图不盲目重试——下一轮会重新计算它们是否仍然需要。
type SubmitError struct {
	ClientOrderID string
	Err           error
}

func (e *SubmitError) Error() string {
	return fmt.Sprintf("submit %s failed: %v", e.ClientOrderID, e.Err)
}

func (e *SubmitError) Unwrap() error { return e.Err }
