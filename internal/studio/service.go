// Package studio runs the user-facing creation flows on top of the ledger,
// library and activity log.
package studio

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ZameerHP/clipscript/internal/activity"
	"github.com/ZameerHP/clipscript/internal/ledger"
	"github.com/ZameerHP/clipscript/internal/library"
	"github.com/ZameerHP/clipscript/pkg/audio"
	"github.com/ZameerHP/clipscript/pkg/db/models"
	"github.com/ZameerHP/clipscript/pkg/enums"
	pkgerrors "github.com/ZameerHP/clipscript/pkg/errors"
	"github.com/ZameerHP/clipscript/pkg/logger"
)

// Settings steer what the generator writes.
type Settings struct {
	Type     enums.StoryType
	Mood     enums.Mood
	Language enums.Language
	Length   enums.Length
}

// DefaultSettings mirrors the studio's initial selection.
func DefaultSettings() Settings {
	return Settings{
		Type:     enums.StoryTypeShortStory,
		Mood:     enums.MoodHappy,
		Language: enums.LanguageEnglish,
		Length:   enums.LengthMedium,
	}
}

func (s Settings) validate() error {
	var bad []string
	if !s.Type.IsValid() {
		bad = append(bad, fmt.Sprintf("story type %q", s.Type))
	}
	if !s.Mood.IsValid() {
		bad = append(bad, fmt.Sprintf("mood %q", s.Mood))
	}
	if !s.Language.IsValid() {
		bad = append(bad, fmt.Sprintf("language %q", s.Language))
	}
	if !s.Length.IsValid() {
		bad = append(bad, fmt.Sprintf("length %q", s.Length))
	}
	if len(bad) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "unsupported "+strings.Join(bad, ", "))
	}
	return nil
}

// GenerateRequest describes one generation. Prior is required to continue.
type GenerateRequest struct {
	Prompt   string
	Settings Settings
	Mode     enums.GenMode
	Prior    *library.Content
}

// Generation is a saved generation and the balance left after paying for it.
type Generation struct {
	Record  *models.Story
	Balance int64
}

// Speech is a synthesized clip wrapped for playback.
type Speech struct {
	Voice  string
	WAV    []byte
	Header audio.Header
}

// Receipt describes a completed purchase.
type Receipt struct {
	Package     Package
	ExternalRef string
	Balance     int64
}

// Params bundles the studio's collaborators.
type Params struct {
	Ledger         ledger.Service
	Library        library.Service
	Recorder       *activity.Recorder
	Generator      Generator
	Synthesizer    Synthesizer
	Payments       PaymentCollector
	GenerationCost int64
	SampleRate     int
	DefaultVoice   string
	Logger         *logger.Logger
}

// Service orchestrates generate, speak and purchase.
type Service struct {
	ledger       ledger.Service
	library      library.Service
	recorder     *activity.Recorder
	generator    Generator
	synthesizer  Synthesizer
	payments     PaymentCollector
	cost         int64
	sampleRate   int
	defaultVoice string
	logg         *logger.Logger
}

// New validates params and applies defaults. Generator and Synthesizer may
// be nil when the matching flow is not offered.
func New(p Params) (*Service, error) {
	if p.Ledger == nil {
		return nil, fmt.Errorf("ledger service required")
	}
	if p.Library == nil {
		return nil, fmt.Errorf("library service required")
	}
	if p.Recorder == nil {
		return nil, fmt.Errorf("activity recorder required")
	}
	if p.Payments == nil {
		p.Payments = SimulatedCollector{}
	}
	if p.GenerationCost <= 0 {
		p.GenerationCost = 1
	}
	if p.SampleRate <= 0 {
		p.SampleRate = audio.DefaultSampleRate
	}
	voice, ok := resolveVoice(p.DefaultVoice)
	if !ok {
		voice = voices[0]
	}
	if p.Logger == nil {
		p.Logger = logger.Nop()
	}
	return &Service{
		ledger:       p.Ledger,
		library:      p.Library,
		recorder:     p.Recorder,
		generator:    p.Generator,
		synthesizer:  p.Synthesizer,
		payments:     p.Payments,
		cost:         p.GenerationCost,
		sampleRate:   p.SampleRate,
		defaultVoice: voice,
		logg:         p.Logger,
	}, nil
}

// Generate checks the balance, asks the generator for content and only then
// pays for and saves it. A generator failure leaves the store untouched.
func (s *Service) Generate(ctx context.Context, userID string, req GenerateRequest) (*Generation, error) {
	if s.generator == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "content generation is not configured")
	}
	if req.Mode == "" {
		req.Mode = enums.GenModeNew
	}
	if !req.Mode.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unsupported mode %q", req.Mode))
	}
	if err := req.Settings.validate(); err != nil {
		return nil, err
	}
	prompt := strings.TrimSpace(req.Prompt)
	if req.Mode != enums.GenModeContinue && prompt == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a prompt is required")
	}
	if req.Mode == enums.GenModeContinue && (req.Prior == nil || strings.TrimSpace(req.Prior.Content) == "") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "nothing to continue")
	}

	balance, err := s.ledger.Balance(ctx, userID)
	if err != nil {
		return nil, err
	}
	if balance < s.cost {
		return nil, pkgerrors.New(pkgerrors.CodeInsufficientCredits, "Insufficient credits.")
	}

	var prior string
	if req.Prior != nil {
		prior = req.Prior.Content
	}
	out, err := s.generator.Generate(ctx, prompt, req.Settings, req.Mode, prior)
	if err != nil {
		s.logg.Error(s.logg.WithUserID(ctx, userID), "generation failed", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "generation failed")
	}
	if req.Mode == enums.GenModeContinue {
		out = continueFrom(*req.Prior, out)
	}

	balance, err = s.ledger.DebitCredits(ctx, userID, s.cost)
	if err != nil {
		return nil, err
	}
	record, err := s.library.Save(ctx, userID, out)
	if err != nil {
		return nil, err
	}
	return &Generation{Record: record, Balance: balance}, nil
}

// continueFrom appends the new passage to the prior content and keeps the
// prior title; viral extras fall back to the prior ones when none came back.
func continueFrom(prior, next library.Content) library.Content {
	merged := library.Content{
		Title:       prior.Title,
		Content:     prior.Content + "\n\n" + next.Content,
		ViralTitles: next.ViralTitles,
		Hashtags:    next.Hashtags,
	}
	if len(merged.ViralTitles) == 0 {
		merged.ViralTitles = prior.ViralTitles
	}
	if len(merged.Hashtags) == 0 {
		merged.Hashtags = prior.Hashtags
	}
	return merged
}

// Speak synthesizes text, wraps it as WAV and logs a TTS entry.
func (s *Service) Speak(ctx context.Context, userID, text, voice string) (*Speech, error) {
	if s.synthesizer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "speech synthesis is not configured")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "text is required")
	}
	if strings.TrimSpace(voice) == "" {
		voice = s.defaultVoice
	}
	resolved, ok := resolveVoice(voice)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown voice %q", voice))
	}

	pcm, err := s.synthesizer.Synthesize(ctx, text, resolved)
	if err != nil {
		s.logg.Error(s.logg.WithUserID(ctx, userID), "speech synthesis failed", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "speech failed")
	}
	wav, err := audio.EncodeWAV(pcm, s.sampleRate)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode speech")
	}
	header, err := audio.ParseHeader(wav)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode speech")
	}

	s.recorder.Record(ctx, userID, enums.ActivityActionTTS,
		fmt.Sprintf("Generated speech with %s.", resolved),
		activity.SpeechMetadata{Voice: resolved, Characters: utf8.RuneCountInString(text), AudioBytes: len(wav)})
	return &Speech{Voice: resolved, WAV: wav, Header: header}, nil
}

// Purchase charges for a catalog package and credits the account.
func (s *Service) Purchase(ctx context.Context, userID, packageID string) (*Receipt, error) {
	pkg, ok := FindPackage(packageID)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown credit package %q", packageID))
	}
	// Confirms the account before charging it.
	if _, err := s.ledger.Balance(ctx, userID); err != nil {
		return nil, err
	}
	ref, err := s.payments.Collect(ctx, userID, pkg)
	if err != nil {
		s.logg.Error(s.logg.WithUserID(ctx, userID), "payment failed", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "payment failed")
	}
	balance, err := s.ledger.AddCredits(ctx, userID, ledger.Purchase{
		ExternalRef: ref,
		Price:       pkg.Price,
		Credits:     pkg.Credits,
		Package:     pkg.Name,
	})
	if err != nil {
		return nil, err
	}
	return &Receipt{Package: pkg, ExternalRef: ref, Balance: balance}, nil
}
