// Package xdberr 提供跨驱动的瞬态数据库错误判定。
//
// 瞬态错误（超时、连接重置、服务端瞬时过载）值得在退避后重试，
// 非瞬态错误（语法错误、鉴权失败、表不存在）重试只会重复失败。
// IsTransient 聚合 MongoDB、ClickHouse 与通用网络三类判定；
// Classifier 和 Retry 把判定接入 xretry 的重试流程。
package xdberr
