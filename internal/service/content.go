package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	jmespath "github.com/jmespath-community/go-jmespath"

	apperrors "github.com/tramatch/tramatch-web/internal/errors"
)

// DefaultResultPath extracts the text of an OpenAI-compatible chat completion.
const DefaultResultPath = "choices[0].message.content"

const (
	defaultContentTimeout = 30 * time.Second
	maxContentResponse    = 1 << 20
	maxTopicLen           = 500
)

// ErrContentDisabled is returned when no generation endpoint is configured.
var ErrContentDisabled = errors.New("content generation is not configured")

// ContentKind selects the prompt used for generation.
type ContentKind string

const (
	ContentSEO   ContentKind = "seo"
	ContentLP    ContentKind = "lp"
	ContentMedia ContentKind = "media"
)

var contentPrompts = map[ContentKind]string{
	ContentSEO: "あなたは物流業界に詳しいSEO担当者です。求荷求車サービス「TRA MATCH」のページ用に、" +
		"検索意図に沿ったタイトル(32文字以内)とメタディスクリプション(120文字以内)を提案してください。",
	ContentLP: "あなたは運送会社向けサービスのコピーライターです。「TRA MATCH」のランディングページに載せる" +
		"見出しと本文を、運送事業者に伝わる平易な日本語で作成してください。",
	ContentMedia: "あなたは物流専門メディアの編集者です。「TRA MATCH」のコラム記事の構成案(見出しと要点)を" +
		"作成してください。",
}

// ContentRequest is the admin generation form.
type ContentRequest struct {
	Kind     ContentKind
	Topic    string
	Keywords string
}

// Validate checks the generation form.
func (r *ContentRequest) Validate() error {
	r.Topic = strings.TrimSpace(r.Topic)
	r.Keywords = strings.TrimSpace(r.Keywords)
	if _, ok := contentPrompts[r.Kind]; !ok {
		return apperrors.ValidationField("kind", "unknown content kind")
	}
	if r.Topic == "" {
		return apperrors.ValidationField("topic", "テーマを入力してください")
	}
	if utf8.RuneCountInString(r.Topic) > maxTopicLen {
		return apperrors.ValidationField("topic", "テーマが長すぎます")
	}
	return nil
}

// ContentServiceOptions groups dependencies for ContentService.
type ContentServiceOptions struct {
	Endpoint   string // Optional: generation is disabled when empty
	APIKey     string
	Model      string
	ResultPath string // JMESPath applied to the JSON response; DefaultResultPath when empty
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// ContentService drafts SEO, landing page and media copy through an
// external text generation endpoint.
type ContentService struct {
	endpoint   string
	apiKey     string
	model      string
	resultPath string
	client     *http.Client
	logger     *slog.Logger
}

// NewContentService constructs a new ContentService. It fails when the
// result path is not a valid JMESPath expression.
func NewContentService(opts ContentServiceOptions) (*ContentService, error) {
	path := strings.TrimSpace(opts.ResultPath)
	if path == "" {
		path = DefaultResultPath
	}
	if _, err := jmespath.Compile(path); err != nil {
		return nil, fmt.Errorf("compile result path %q: %w", path, err)
	}
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultContentTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ContentService{
		endpoint:   strings.TrimSpace(opts.Endpoint),
		apiKey:     opts.APIKey,
		model:      opts.Model,
		resultPath: path,
		client:     client,
		logger:     logger.With("component", "content_service"),
	}, nil
}

// Enabled reports whether an endpoint is configured.
func (s *ContentService) Enabled() bool { return s.endpoint != "" }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model,omitempty"`
	Messages []chatMessage `json:"messages"`
}

// Generate sends the prompt for req and returns the extracted text.
func (s *ContentService) Generate(ctx context.Context, req ContentRequest) (string, error) {
	if !s.Enabled() {
		return "", ErrContentDisabled
	}
	if err := req.Validate(); err != nil {
		return "", err
	}

	user := "テーマ: " + req.Topic
	if req.Keywords != "" {
		user += "\nキーワード: " + req.Keywords
	}
	body, err := json.Marshal(chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: contentPrompts[req.Kind]},
			{Role: "user", Content: user},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal content request: %w", err)
	}

	payload, err := s.post(ctx, body)
	if err != nil {
		return "", err
	}
	text, err := s.extract(payload)
	if err != nil {
		return "", err
	}
	s.logger.InfoContext(ctx, "content generated", "kind", req.Kind, "chars", utf8.RuneCountInString(text))
	return text, nil
}

func (s *ContentService) post(ctx context.Context, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create content request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("content request failed: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxContentResponse))
	if err != nil {
		return nil, fmt.Errorf("read content response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("content endpoint returned %d", resp.StatusCode)
	}
	return payload, nil
}

func (s *ContentService) extract(payload []byte) (string, error) {
	var data any
	if err := json.Unmarshal(payload, &data); err != nil {
		return "", fmt.Errorf("invalid content response JSON: %w", err)
	}
	res, err := jmespath.Search(s.resultPath, data)
	if err != nil {
		return "", fmt.Errorf("evaluate result path: %w", err)
	}
	switch v := res.(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return "", errors.New("content response is empty")
		}
		return strings.TrimSpace(v), nil
	case nil:
		return "", fmt.Errorf("result path %q matched nothing", s.resultPath)
	default:
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshal content result: %w", err)
		}
		return string(b), nil
	}
}
