// MockLanguage 是文本生成能力的测试模拟实现。
//
// 支持固定响应、流式输出、流中途失败与错误注入场景。
package mocks

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/BaSui01/synax/provider"
)

// --- MockLanguage 结构 ---

// MockLanguage 是 provider.LanguageCapability 的模拟实现
type MockLanguage struct {
	mu sync.RWMutex

	// 响应配置
	response     string
	streamChunks []string
	streamErr    error
	err          error

	// 调用记录
	calls        []LanguageCall
	generateFunc func(ctx context.Context, req *provider.LanguageRequest) (*provider.LanguageResponse, error)

	// 行为控制
	delay     time.Duration
	failAfter int // 在第 N 次调用后失败
	callCount int
}

// LanguageCall 记录单次调用
type LanguageCall struct {
	Model    string
	Stream   bool
	Request  *provider.LanguageRequest
	Response *provider.LanguageResponse
	Error    error
}

// --- 构造函数和 Builder 方法 ---

// NewLanguage 创建新的 MockLanguage
func NewLanguage() *MockLanguage {
	return &MockLanguage{response: "Mock response"}
}

// WithResponse 设置固定响应内容
func (m *MockLanguage) WithResponse(response string) *MockLanguage {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.response = response
	return m
}

// WithError 设置返回错误（Generate 与 Stream 均同步返回）
func (m *MockLanguage) WithError(err error) *MockLanguage {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// WithStreamChunks 设置流式响应块
func (m *MockLanguage) WithStreamChunks(chunks ...string) *MockLanguage {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.streamChunks = chunks
	return m
}

// WithStreamError 在发送完所有流式块后追加一个错误块
func (m *MockLanguage) WithStreamError(err error) *MockLanguage {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.streamErr = err
	return m
}

// WithDelay 设置响应延迟，延迟期间遵循 ctx 取消
func (m *MockLanguage) WithDelay(d time.Duration) *MockLanguage {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = d
	return m
}

// WithFailAfter 设置在第 N 次调用后失败
func (m *MockLanguage) WithFailAfter(n int) *MockLanguage {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failAfter = n
	return m
}

// WithGenerateFunc 设置自定义 Generate 函数
func (m *MockLanguage) WithGenerateFunc(fn func(ctx context.Context, req *provider.LanguageRequest) (*provider.LanguageResponse, error)) *MockLanguage {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generateFunc = fn
	return m
}

// --- 调用记录 ---

// Calls 返回调用记录副本
func (m *MockLanguage) Calls() []LanguageCall {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]LanguageCall(nil), m.calls...)
}

// CallCount 返回调用次数
func (m *MockLanguage) CallCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.callCount
}

// Models 返回每次调用收到的模型 ID
func (m *MockLanguage) Models() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.calls))
	for _, c := range m.calls {
		out = append(out, c.Model)
	}
	return out
}

// Reset 清空调用记录
func (m *MockLanguage) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
	m.callCount = 0
}

// --- provider.LanguageCapability 实现 ---

func (m *MockLanguage) wait(ctx context.Context) error {
	m.mu.RLock()
	d := m.delay
	m.mu.RUnlock()
	if d <= 0 {
		return ctx.Err()
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Generate 生成响应
func (m *MockLanguage) Generate(ctx context.Context, req *provider.LanguageRequest) (*provider.LanguageResponse, error) {
	if err := m.wait(ctx); err != nil {
		m.record(LanguageCall{Model: req.Model, Request: req, Error: err})
		return nil, err
	}

	m.mu.Lock()
	m.callCount++
	fn := m.generateFunc
	err := m.err
	if m.failAfter > 0 && m.callCount > m.failAfter {
		err = errors.New("mock language: configured to fail after N calls")
	}
	content := m.response
	m.mu.Unlock()

	if err != nil {
		m.append(LanguageCall{Model: req.Model, Request: req, Error: err})
		return nil, err
	}
	if fn != nil {
		resp, err := fn(ctx, req)
		m.append(LanguageCall{Model: req.Model, Request: req, Response: resp, Error: err})
		return resp, err
	}

	resp := &provider.LanguageResponse{
		ID:    "mock-response-id",
		Model: req.Model,
		Choices: []provider.Choice{{
			FinishReason: "stop",
			Message:      provider.Message{Role: provider.RoleAssistant, Content: content},
		}},
		Usage:     provider.Usage{PromptTokens: 10, CompletionTokens: 20, TotalTokens: 30},
		CreatedAt: time.Now(),
	}
	m.append(LanguageCall{Model: req.Model, Request: req, Response: resp})
	return resp, nil
}

// Stream 流式生成响应
func (m *MockLanguage) Stream(ctx context.Context, req *provider.LanguageRequest) (<-chan provider.LanguageStreamChunk, error) {
	if err := m.wait(ctx); err != nil {
		m.record(LanguageCall{Model: req.Model, Stream: true, Request: req, Error: err})
		return nil, err
	}

	m.mu.Lock()
	m.callCount++
	err := m.err
	chunks := append([]string(nil), m.streamChunks...)
	if len(chunks) == 0 {
		chunks = []string{m.response}
	}
	streamErr := m.streamErr
	m.mu.Unlock()

	m.append(LanguageCall{Model: req.Model, Stream: true, Request: req, Error: err})
	if err != nil {
		return nil, err
	}

	ch := make(chan provider.LanguageStreamChunk)
	go func() {
		defer close(ch)
		for i, c := range chunks {
			chunk := provider.LanguageStreamChunk{
				ID:    "mock-chunk-id",
				Model: req.Model,
				Index: i,
				Delta: provider.Message{Role: provider.RoleAssistant, Content: c},
			}
			if i == len(chunks)-1 && streamErr == nil {
				chunk.FinishReason = "stop"
			}
			select {
			case ch <- chunk:
			case <-ctx.Done():
				return
			}
		}
		if streamErr != nil {
			select {
			case ch <- provider.LanguageStreamChunk{Err: streamErr}:
			case <-ctx.Done():
			}
		}
	}()
	return ch, nil
}

func (m *MockLanguage) record(c LanguageCall) {
	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()
	m.append(c)
}

func (m *MockLanguage) append(c LanguageCall) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, c)
}

// NewProvider 创建只带文本能力的 Provider
func NewProvider(id string, lang *MockLanguage) *provider.Provider {
	p := &provider.Provider{ID: id, Name: id}
	if lang != nil {
		p.Language = lang
	}
	return p
}
