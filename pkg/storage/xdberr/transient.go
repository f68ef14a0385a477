package xdberr

import (
	"context"
	"errors"
	"io"
	"net"
	"syscall"

	"github.com/ClickHouse/clickhouse-go/v2"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// ClickHouse 服务端错误码中值得重试的一组：
// 超时、瞬时过载、网络层失败。其余错误码（语法错误、表不存在等）
// 重试只会重复失败。
const (
	chTimeoutExceeded            = 159
	chTooManySimultaneousQueries = 202
	chSocketTimeout              = 209
	chNetworkError               = 210
)

// IsTransient 判断 err 是否为值得重试的瞬态数据库错误。
//
// 依次尝试 MongoDB、ClickHouse 和通用网络三类判定，任一命中即瞬态。
// nil 返回 false。
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	return IsTransientMongo(err) || IsTransientClickHouse(err) || isTransientNet(err)
}

// IsTransientMongo 判断 err 是否为 MongoDB 的瞬态错误：
// 驱动超时、网络错误，或服务端标记了瞬态事务/可重试写标签。
func IsTransientMongo(err error) bool {
	if err == nil {
		return false
	}
	if mongo.IsTimeout(err) || mongo.IsNetworkError(err) {
		return true
	}

	var srvErr mongo.ServerError
	if errors.As(err, &srvErr) {
		return srvErr.HasErrorLabel("TransientTransactionError") ||
			srvErr.HasErrorLabel("RetryableWriteError")
	}
	return false
}

// IsTransientClickHouse 判断 err 是否为 ClickHouse 的瞬态服务端错误。
func IsTransientClickHouse(err error) bool {
	var ex *clickhouse.Exception
	if !errors.As(err, &ex) {
		return false
	}

	switch ex.Code {
	case chTimeoutExceeded, chTooManySimultaneousQueries, chSocketTimeout, chNetworkError:
		return true
	default:
		return false
	}
}

// isTransientNet 覆盖驱动无关的传输层失败。
func isTransientNet(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	if errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.EPIPE) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
