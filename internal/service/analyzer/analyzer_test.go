package analyzer

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/omniinfra/platform/internal/domain"
	"github.com/omniinfra/platform/internal/render"
)

func TestAnalyzeReturnsAppsAndScores(t *testing.T) {
	svc := NewStatic(0, 0)
	raw, err := svc.Analyze(context.Background(), domain.GithubRepo{FullName: "company/app"})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	var report struct {
		Apps   []domain.AppInfo `json:"apps"`
		Scores map[string]int   `json:"scores"`
	}
	if err := json.Unmarshal(raw, &report); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(report.Apps) == 0 {
		t.Fatal("report has no apps; the checklist treats that as analysis incomplete")
	}
	if report.Scores["overall"] != 85 {
		t.Fatalf("overall score = %d, want 85", report.Scores["overall"])
	}
}

func TestAnalyzeHonorsCancellation(t *testing.T) {
	svc := NewStatic(time.Hour, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := svc.Analyze(ctx, domain.GithubRepo{FullName: "company/app"}); err == nil {
		t.Fatal("expected context error")
	}
}

func TestReportRendersWithScoreBars(t *testing.T) {
	svc := NewStatic(0, 0)
	raw, _ := svc.Analyze(context.Background(), domain.GithubRepo{FullName: "company/app"})
	doc, err := render.Render(raw)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	var scoreSection *render.Node
	for i := range doc.Children {
		if doc.Children[i].Key == "scores" {
			scoreSection = &doc.Children[i]
		}
	}
	if scoreSection == nil {
		t.Fatal("no scores section rendered")
	}
	fields := scoreSection.Children[0].Children
	if len(fields) != 6 {
		t.Fatalf("score fields = %d, want 6", len(fields))
	}
	for _, field := range fields {
		if field.Kind != render.KindScore {
			t.Fatalf("field %s kind = %s, want score", field.Key, field.Kind)
		}
	}
}
