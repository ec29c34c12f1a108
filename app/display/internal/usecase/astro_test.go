package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/astro_companion/app/astro/pkg/compat"
	"github.com/iWorld-y/astro_companion/app/astro/pkg/engine"
	dm "github.com/iWorld-y/astro_companion/app/astro/pkg/model"
	"github.com/iWorld-y/astro_companion/app/display/internal/domain"
)

// mockAstroRepo 模拟 astro 引擎
type mockAstroRepo struct {
	profile    *dm.Profile
	compatErr  error
	gotPartner dm.Person
	gotKind    dm.Kind
}

func (m *mockAstroRepo) Profile(ctx context.Context) (*dm.Profile, error) {
	if m.profile == nil {
		return nil, engine.ErrProfileRequired
	}
	return m.profile, nil
}

func (m *mockAstroRepo) SaveProfile(ctx context.Context, p *dm.Profile) error {
	m.profile = p
	return nil
}

func (m *mockAstroRepo) Chart(ctx context.Context, refresh bool) ([]dm.Planet, error) {
	if m.profile == nil {
		return nil, engine.ErrProfileRequired
	}
	return []dm.Planet{{Name: "Sun", Sign: "Tau"}}, nil
}

func (m *mockAstroRepo) Compatibility(ctx context.Context, kind dm.Kind, partner dm.Person) (*compat.Report, error) {
	m.gotKind, m.gotPartner = kind, partner
	if m.compatErr != nil {
		return nil, m.compatErr
	}
	return &compat.Report{Tips: []compat.Tip{{Tip: "Listen", Description: "Closely."}}}, nil
}

func (m *mockAstroRepo) StartConversation(topic int) (string, string, error) {
	if topic != 0 {
		return "", "", fmt.Errorf("%w: %d", engine.ErrUnknownTopic, topic)
	}
	return "c1", "Hello", nil
}

func (m *mockAstroRepo) SendMessage(ctx context.Context, id, text string) (string, error) {
	if id != "c1" {
		return "", engine.ErrUnknownConversation
	}
	return "echo " + text, nil
}

func (m *mockAstroRepo) Transcript(id string) ([]string, error) {
	return []string{"Hello", "You: hi", "AI: echo hi"}, nil
}

func (m *mockAstroRepo) CloseConversation(ctx context.Context, id string) error {
	if id != "c1" {
		return engine.ErrUnknownConversation
	}
	return nil
}

func TestAstroUseCase_Profile(t *testing.T) {
	repo := &mockAstroRepo{}
	uc := NewAstroUseCase(repo, log.DefaultLogger)
	ctx := context.Background()

	_, err := uc.GetProfile(ctx)
	if errors.Code(err) != 404 || errors.Reason(err) != "PROFILE_REQUIRED" {
		t.Errorf("GetProfile() error = %v, want 404 PROFILE_REQUIRED", err)
	}

	_, err = uc.SaveProfile(ctx, &domain.Profile{Name: "Ada", Birthday: "17/05/1990"})
	if errors.Code(err) != 400 {
		t.Errorf("SaveProfile() bad birthday error = %v, want 400", err)
	}
	_, err = uc.SaveProfile(ctx, &domain.Profile{Name: "Ada", Birthday: "1990-05-17", BirthTime: "25:99"})
	if errors.Code(err) != 400 {
		t.Errorf("SaveProfile() bad birth time error = %v, want 400", err)
	}

	saved, err := uc.SaveProfile(ctx, &domain.Profile{Name: "Ada", Birthday: "1990-05-17", City: "Anchorage", State: "AK"})
	if err != nil {
		t.Fatalf("SaveProfile() error = %v", err)
	}
	if saved.Birthday != "1990-05-17" {
		t.Errorf("SaveProfile() birthday = %q", saved.Birthday)
	}

	got, err := uc.GetProfile(ctx)
	if err != nil {
		t.Fatalf("GetProfile() error = %v", err)
	}
	if got.Name != "Ada" || got.City != "Anchorage" {
		t.Errorf("GetProfile() = %+v", got)
	}
}

func TestAstroUseCase_Compatibility(t *testing.T) {
	repo := &mockAstroRepo{}
	uc := NewAstroUseCase(repo, log.DefaultLogger)
	ctx := context.Background()

	_, err := uc.Compatibility(ctx, &domain.CompatibilityRequest{Kind: "enemy", Name: "Grace", Birthday: "1992-12-09"})
	if errors.Reason(err) != "INVALID_KIND" {
		t.Errorf("Compatibility() error = %v, want INVALID_KIND", err)
	}
	_, err = uc.Compatibility(ctx, &domain.CompatibilityRequest{Kind: "partner", Name: " ", Birthday: "1992-12-09"})
	if errors.Reason(err) != "INVALID_PARTNER" {
		t.Errorf("Compatibility() error = %v, want INVALID_PARTNER", err)
	}

	report, err := uc.Compatibility(ctx, &domain.CompatibilityRequest{Kind: "Partner", Name: "Grace", Birthday: "1992-12-09"})
	if err != nil {
		t.Fatalf("Compatibility() error = %v", err)
	}
	if len(report.Tips) != 1 {
		t.Errorf("Compatibility() tips = %v", report.Tips)
	}
	if repo.gotKind != dm.KindPartner || !repo.gotPartner.Birthday.Equal(time.Date(1992, 12, 9, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Compatibility() passed kind=%v partner=%+v", repo.gotKind, repo.gotPartner)
	}

	repo.compatErr = &compat.DecodeError{Kind: compat.ErrMissingField, Path: "tips"}
	_, err = uc.Compatibility(ctx, &domain.CompatibilityRequest{Kind: "friendship", Name: "Grace", Birthday: "1992-12-09"})
	if errors.Code(err) != 422 || errors.Reason(err) != ReasonReportMalformed {
		t.Errorf("Compatibility() error = %v, want 422 %s", err, ReasonReportMalformed)
	}
	if e := errors.FromError(err); e.Message == "" {
		t.Errorf("Compatibility() error has no user message")
	}
}

func TestAstroUseCase_Conversation(t *testing.T) {
	uc := NewAstroUseCase(&mockAstroRepo{}, log.DefaultLogger)
	ctx := context.Background()

	_, err := uc.StartConversation(ctx, &domain.StartConversationRequest{Topic: 9})
	if errors.Code(err) != 400 {
		t.Errorf("StartConversation() error = %v, want 400", err)
	}

	started, err := uc.StartConversation(ctx, &domain.StartConversationRequest{Topic: 0})
	if err != nil {
		t.Fatalf("StartConversation() error = %v", err)
	}

	reply, err := uc.SendMessage(ctx, started.ID, &domain.MessageRequest{Text: "hi"})
	if err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}
	if reply.Reply != "echo hi" || len(reply.Transcript) != 3 {
		t.Errorf("SendMessage() = %+v", reply)
	}

	if err := uc.CloseConversation(ctx, "missing"); errors.Code(err) != 404 {
		t.Errorf("CloseConversation() error = %v, want 404", err)
	}
	if err := uc.CloseConversation(ctx, started.ID); err != nil {
		t.Errorf("CloseConversation() error = %v", err)
	}
}
