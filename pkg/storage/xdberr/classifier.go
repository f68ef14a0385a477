package xdberr

import (
	"github.com/omeyang/lifekit/pkg/context/xctx"
	"github.com/omeyang/lifekit/pkg/resilience/xretry"
)

// Classifier 返回基于 IsTransient 的重试分类器。
func Classifier() xretry.Classifier {
	return xretry.ClassifierFunc(IsTransient)
}

// Retry 返回预绑定了瞬态分类器的重试构建器。
// 行为与 ctx.Retry() 相同，只是非瞬态错误立即传播。
func Retry[C any](ctx *xctx.Context[C]) *xretry.Retryable {
	return ctx.Retry().Classifier(Classifier())
}
