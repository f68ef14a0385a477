package xmetrics

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const defaultInstrumentationName = "github.com/omeyang/lifekit/xmetrics"

// OTelOption 配置 OTelTransport。
type OTelOption func(*OTelTransport)

// WithMeterProvider 设置 MeterProvider。默认使用全局 Provider。
func WithMeterProvider(provider metric.MeterProvider) OTelOption {
	return func(t *OTelTransport) {
		if provider != nil {
			t.provider = provider
		}
	}
}

// WithInstrumentationName 设置 OTel instrumentation 名称。
func WithInstrumentationName(name string) OTelOption {
	return func(t *OTelTransport) {
		if name != "" {
			t.instrumentationName = name
		}
	}
}

// OTelTransport 把序列批次映射到 OpenTelemetry 同步 Gauge 仪表。
//
// 每个指标类型对应一个按需创建、随后缓存的 Float64Gauge；
// 指标与资源标签合并为属性集。数值点（整数、浮点、布尔映射 0/1）
// 逐点 Record，字符串点无法表达为数值仪表，跳过。
// 这是尽力而为的桥接：它保留值与标签，不试图复刻区间语义。
type OTelTransport struct {
	provider            metric.MeterProvider
	instrumentationName string

	initOnce sync.Once
	meter    metric.Meter

	mu     sync.Mutex
	gauges map[string]metric.Float64Gauge
}

// NewOTelTransport 创建 OTel 桥接传输。
func NewOTelTransport(opts ...OTelOption) *OTelTransport {
	t := &OTelTransport{
		instrumentationName: defaultInstrumentationName,
		gauges:              make(map[string]metric.Float64Gauge),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(t)
	}
	return t
}

var _ Transport = (*OTelTransport)(nil)

// CreateTimeSeries 实现 Transport。name（工程路径）在 OTel 体系中
// 没有对应概念，忽略。
func (t *OTelTransport) CreateTimeSeries(ctx context.Context, _ string, batch []*SeriesData) error {
	t.initOnce.Do(func() {
		provider := t.provider
		if provider == nil {
			provider = otel.GetMeterProvider()
		}
		t.meter = provider.Meter(t.instrumentationName)
	})

	for _, data := range batch {
		if data == nil || len(data.Points) == 0 {
			continue
		}

		gauge, err := t.gauge(data.MetricType)
		if err != nil {
			return err
		}

		attrs := seriesAttributes(data)
		for _, p := range data.Points {
			v, ok := p.Value.Float64()
			if !ok {
				continue
			}
			gauge.Record(ctx, v, metric.WithAttributes(attrs...))
		}
	}
	return nil
}

// gauge 返回指标类型对应的仪表，必要时创建并缓存。
func (t *OTelTransport) gauge(metricType string) (metric.Float64Gauge, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if g, ok := t.gauges[metricType]; ok {
		return g, nil
	}

	g, err := t.meter.Float64Gauge(metricType)
	if err != nil {
		return nil, fmt.Errorf("xmetrics: create gauge %q: %w", metricType, err)
	}
	t.gauges[metricType] = g
	return g, nil
}

func seriesAttributes(data *SeriesData) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(data.MetricLabels)+len(data.ResourceLabels)+1)
	for k, v := range data.MetricLabels {
		attrs = append(attrs, attribute.String(k, v))
	}
	for k, v := range data.ResourceLabels {
		attrs = append(attrs, attribute.String("resource."+k, v))
	}
	if data.ResourceType != "" {
		attrs = append(attrs, attribute.String("resource.type", data.ResourceType))
	}
	return attrs
}
