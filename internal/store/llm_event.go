package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// LLMRequestEvent is the llm_request_events row. Bodies are empty unless
// the caller opted into capturing them.
type LLMRequestEvent struct {
	ID           int    `gorm:"primaryKey;autoIncrement"`
	TimestampMs  int64  `gorm:"column:timestamp_ms;autoCreateTime:milli;not null"`
	RequestID    string `gorm:"not null;default:'';index:idx_llm_events_request"`
	Provider     string `gorm:"not null;index:idx_llm_events_provider"`
	Model        string `gorm:"not null"`
	Purpose      string `gorm:"not null;index:idx_llm_events_purpose"`
	InputTokens  int    `gorm:"not null;default:0"`
	OutputTokens int    `gorm:"not null;default:0"`
	LatencyMs    int64  `gorm:"not null;default:0"`
	Success      bool   `gorm:"not null;index:idx_llm_events_success"`
	ErrorMessage string `gorm:"not null;default:''"`
	RequestBody  string `gorm:"not null;default:''"`
	ResponseBody string `gorm:"not null;default:''"`
}

func (LLMRequestEvent) TableName() string {
	return "llm_request_events"
}

func (e LLMRequestEvent) record() LLMEventRecord {
	return LLMEventRecord{
		ID:        e.ID,
		Timestamp: time.UnixMilli(e.TimestampMs),
		LLMRequestEventData: LLMRequestEventData{
			RequestID:    e.RequestID,
			Provider:     e.Provider,
			Model:        e.Model,
			Purpose:      e.Purpose,
			InputTokens:  e.InputTokens,
			OutputTokens: e.OutputTokens,
			LatencyMs:    e.LatencyMs,
			Success:      e.Success,
			ErrorMessage: e.ErrorMessage,
			RequestBody:  e.RequestBody,
			ResponseBody: e.ResponseBody,
		},
	}
}

type eventRepo struct {
	db *gorm.DB
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	row := LLMRequestEvent{
		RequestID:    data.RequestID,
		Provider:     data.Provider,
		Model:        data.Model,
		Purpose:      data.Purpose,
		InputTokens:  data.InputTokens,
		OutputTokens: data.OutputTokens,
		LatencyMs:    data.LatencyMs,
		Success:      data.Success,
		ErrorMessage: data.ErrorMessage,
		RequestBody:  data.RequestBody,
		ResponseBody: data.ResponseBody,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEventRecord, error) {
	query := r.db.WithContext(ctx).Model(&LLMRequestEvent{})
	if opts.Purpose != "" {
		query = query.Where("purpose = ?", opts.Purpose)
	}
	if opts.RequestID != "" {
		query = query.Where("request_id = ?", opts.RequestID)
	}
	query = query.Order("id DESC")
	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}

	var rows []LLMRequestEvent
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}

	out := make([]LLMEventRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.record())
	}
	return out, nil
}

func (r *eventRepo) GetLLMEvent(ctx context.Context, id int) (*LLMEventRecord, error) {
	var row LLMRequestEvent
	err := r.db.WithContext(ctx).First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get LLM event %d: %w", id, err)
	}
	rec := row.record()
	return &rec, nil
}

func (r *eventRepo) LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error) {
	var out []PurposeUsage
	err := r.db.WithContext(ctx).Model(&LLMRequestEvent{}).
		Select(`purpose,
			COUNT(*) AS calls,
			COALESCE(SUM(input_tokens), 0) AS input_tokens,
			COALESCE(SUM(output_tokens), 0) AS output_tokens,
			CAST(COALESCE(AVG(latency_ms), 0) AS INTEGER) AS avg_latency_ms,
			COALESCE(SUM(CASE WHEN success THEN 0 ELSE 1 END), 0) AS failures`).
		Group("purpose").
		Order("purpose").
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("usage by purpose: %w", err)
	}
	return out, nil
}

func (r *eventRepo) LLMUsageByModel(ctx context.Context) ([]ModelUsage, error) {
	var out []ModelUsage
	err := r.db.WithContext(ctx).Model(&LLMRequestEvent{}).
		Select(`model,
			COUNT(*) AS calls,
			COALESCE(SUM(input_tokens), 0) AS input_tokens,
			COALESCE(SUM(output_tokens), 0) AS output_tokens`).
		Group("model").
		Order("model").
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("usage by model: %w", err)
	}
	return out, nil
}
