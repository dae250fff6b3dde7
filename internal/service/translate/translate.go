package translate

import (
	"context"
	"net/http"
	"strings"
	"time"

	"imagen-gateway/config"
	"imagen-gateway/internal/core"
	"imagen-gateway/internal/telemetry"

	"go.uber.org/zap"
)

const (
	SourceLang = "zh"
	TargetLang = "en"

	DefaultTimeout = 10 * time.Second
)

// ContainsChinese 是否含 CJK 統一表意文字 U+4E00–U+9FA5
func ContainsChinese(text string) bool {
	for _, r := range text {
		if r >= 0x4E00 && r <= 0x9FA5 {
			return true
		}
	}
	return false
}

// Strategy 單一翻譯來源；失敗回傳 error，由 Translator 換下一個
type Strategy interface {
	Name() string
	Translate(ctx context.Context, text string) (string, error)
}

// Identity 最後一步，原文照回
type Identity struct{}

func (Identity) Name() string { return "identity" }

func (Identity) Translate(_ context.Context, text string) (string, error) { return text, nil }

type Translator struct {
	strategies []Strategy
	timeout    time.Duration
	logger     *zap.Logger
	trace      *telemetry.Trace
	metric     *telemetry.Metric
}

// NewTranslator 依設定組出 MyMemory → LibreTranslate → Identity；停用時只有 Identity
func NewTranslator(conf *config.Configuration, logger *zap.Logger, trace *telemetry.Trace, metric *telemetry.Metric) *Translator {
	timeout := DefaultTimeout
	if conf.Translate.TimeoutSeconds > 0 {
		timeout = time.Duration(conf.Translate.TimeoutSeconds) * time.Second
	}
	var strategies []Strategy
	if conf.Translate.Enabled {
		httpClient := &http.Client{}
		strategies = append(strategies,
			NewMyMemory(conf.Translate.PrimaryURL, httpClient),
			NewLibreTranslate(conf.Translate.FallbackURL, conf.Translate.FallbackAPIKey, httpClient),
		)
	}
	return New(strategies, timeout, logger, trace, metric)
}

func New(strategies []Strategy, timeout time.Duration, logger *zap.Logger, trace *telemetry.Trace, metric *telemetry.Metric) *Translator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Translator{
		strategies: append(append([]Strategy{}, strategies...), Identity{}),
		timeout:    timeout,
		logger:     logger,
		trace:      trace,
		metric:     metric,
	}
}

// Strategies 依嘗試順序回傳名稱
func (t *Translator) Strategies() []string {
	names := make([]string, 0, len(t.strategies))
	for _, s := range t.strategies {
		names = append(names, s.Name())
	}
	return names
}

// DetectAndTranslate 不含中文時不發任何請求；永遠不回傳錯誤
func (t *Translator) DetectAndTranslate(ctx context.Context, text string) string {
	if !ContainsChinese(text) {
		return text
	}

	ctx, span, end := t.trace.WithSpan(ctx, string(core.SpanTranslatePrompt))
	meta := core.TraceTranslateMeta{InputLen: len([]rune(text))}
	defer func() {
		t.trace.ApplyTraceAttributes(span, meta)
		end(nil)
	}()

	for _, s := range t.strategies {
		out, err := t.attempt(ctx, s, text)
		if err != nil {
			t.logger.Warn("[Translation] strategy failed",
				zap.String("provider", s.Name()),
				zap.Error(err),
			)
			t.metric.IncTranslate(s.Name(), "error")
			continue
		}
		out = strings.TrimSpace(out)
		if out == "" {
			t.metric.IncTranslate(s.Name(), "empty")
			continue
		}
		meta.Provider = s.Name()
		meta.OutputLen = len([]rune(out))
		meta.Translated = out != text
		t.metric.IncTranslate(s.Name(), "ok")
		t.logger.Info("[Translation] done",
			zap.String("provider", s.Name()),
			zap.String("original", text),
			zap.String("translated", out),
		)
		return out
	}
	return text
}

func (t *Translator) attempt(ctx context.Context, s Strategy, text string) (string, error) {
	if _, ok := s.(Identity); ok {
		return text, nil
	}
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return s.Translate(ctx, text)
}
