package xmetrics

import "time"

// Value 是时间序列点允许的取值类型。
type Value interface {
	string | bool | int64 | float64
}

// ValueKind 标识 TypedValue 实际携带的变体。
type ValueKind int

const (
	ValueString ValueKind = iota
	ValueBool
	ValueInt64
	ValueDouble
)

func (k ValueKind) String() string {
	switch k {
	case ValueString:
		return "string"
	case ValueBool:
		return "bool"
	case ValueInt64:
		return "int64"
	case ValueDouble:
		return "double"
	default:
		return "unknown"
	}
}

// TypedValue 是四选一的指标值，恰好携带一个变体。
// 通过对应的构造函数创建；零值是空字符串变体。
type TypedValue struct {
	kind ValueKind
	str  string
	b    bool
	i    int64
	f    float64
}

// StringValue 创建字符串变体。
func StringValue(v string) TypedValue {
	return TypedValue{kind: ValueString, str: v}
}

// BoolValue 创建布尔变体。
func BoolValue(v bool) TypedValue {
	return TypedValue{kind: ValueBool, b: v}
}

// Int64Value 创建整数变体。
func Int64Value(v int64) TypedValue {
	return TypedValue{kind: ValueInt64, i: v}
}

// DoubleValue 创建浮点变体。
func DoubleValue(v float64) TypedValue {
	return TypedValue{kind: ValueDouble, f: v}
}

// typedValueOf 按类型参数创建对应的变体。
func typedValueOf[T Value](v T) TypedValue {
	switch val := any(v).(type) {
	case string:
		return StringValue(val)
	case bool:
		return BoolValue(val)
	case int64:
		return Int64Value(val)
	case float64:
		return DoubleValue(val)
	default:
		// Value 约束限定为四个具体类型，不可达
		return TypedValue{}
	}
}

// Kind 返回变体类型。
func (v TypedValue) Kind() ValueKind { return v.kind }

// Str 返回字符串变体的值。非字符串变体返回空串。
func (v TypedValue) Str() string { return v.str }

// Bool 返回布尔变体的值。
func (v TypedValue) Bool() bool { return v.b }

// Int64 返回整数变体的值。
func (v TypedValue) Int64() int64 { return v.i }

// Double 返回浮点变体的值。
func (v TypedValue) Double() float64 { return v.f }

// Float64 以数值视角读取：整数与浮点原值返回，布尔映射为 0/1，
// 字符串不可数值化（ok 为 false）。
func (v TypedValue) Float64() (value float64, ok bool) {
	switch v.kind {
	case ValueInt64:
		return float64(v.i), true
	case ValueDouble:
		return v.f, true
	case ValueBool:
		if v.b {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// Point 是一个带可选时间区间的指标点。零值时间表示未设置。
type Point struct {
	Value TypedValue
	Start time.Time
	End   time.Time
}
