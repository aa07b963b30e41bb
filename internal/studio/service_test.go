package studio

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZameerHP/clipscript/internal/activity"
	"github.com/ZameerHP/clipscript/internal/ledger"
	"github.com/ZameerHP/clipscript/internal/library"
	"github.com/ZameerHP/clipscript/internal/store/storetest"
	"github.com/ZameerHP/clipscript/pkg/audio"
	"github.com/ZameerHP/clipscript/pkg/enums"
	pkgerrors "github.com/ZameerHP/clipscript/pkg/errors"
	"github.com/ZameerHP/clipscript/pkg/logger"
)

type fakeGenerator struct {
	calls   int
	prompt  string
	mode    enums.GenMode
	prior   string
	out     library.Content
	failure error
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string, _ Settings, mode enums.GenMode, prior string) (library.Content, error) {
	f.calls++
	f.prompt, f.mode, f.prior = prompt, mode, prior
	if f.failure != nil {
		return library.Content{}, f.failure
	}
	return f.out, nil
}

type fakeSynth struct {
	pcm     []byte
	voice   string
	failure error
}

func (f *fakeSynth) Synthesize(_ context.Context, _ string, voice string) ([]byte, error) {
	f.voice = voice
	return f.pcm, f.failure
}

type failingCollector struct{}

func (failingCollector) Collect(context.Context, string, Package) (string, error) {
	return "", errors.New("card declined")
}

type harness struct {
	studio   *Service
	ledger   ledger.Service
	library  library.Service
	recorder *activity.Recorder
	gen      *fakeGenerator
	synth    *fakeSynth
}

func newHarness(t *testing.T, payments PaymentCollector) harness {
	t.Helper()
	s := storetest.New(t)
	rec, err := activity.NewRecorder(activity.NewRepository(s), logger.Nop(), nil)
	require.NoError(t, err)
	ledgerRepo := ledger.NewRepository(s)
	led, err := ledger.NewService(s, ledgerRepo, rec, nil, nil)
	require.NoError(t, err)
	lib, err := library.NewService(s, ledgerRepo, rec)
	require.NoError(t, err)

	storetest.SeedUser(t, s, "alice", 10)
	storetest.SeedUser(t, s, "broke", 0)

	gen := &fakeGenerator{out: library.Content{
		Title:       "The Lighthouse",
		Content:     "Waves hit the rocks.",
		ViralTitles: []string{"You won't believe this lighthouse"},
		Hashtags:    []string{"#story"},
	}}
	synth := &fakeSynth{pcm: make([]byte, 480)}
	svc, err := New(Params{
		Ledger:      led,
		Library:     lib,
		Recorder:    rec,
		Generator:   gen,
		Synthesizer: synth,
		Payments:    payments,
	})
	require.NoError(t, err)
	return harness{studio: svc, ledger: led, library: lib, recorder: rec, gen: gen, synth: synth}
}

func TestGenerateDebitsAndSaves(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	res, err := h.studio.Generate(ctx, "alice", GenerateRequest{Prompt: " a lighthouse keeper ", Settings: DefaultSettings()})
	require.NoError(t, err)
	assert.Equal(t, int64(9), res.Balance)
	assert.Equal(t, "The Lighthouse", res.Record.Title)
	assert.Equal(t, "a lighthouse keeper", h.gen.prompt)
	assert.Equal(t, enums.GenModeNew, h.gen.mode)

	stories, err := h.library.ListByUser(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, stories, 1)
	assert.Equal(t, res.Record.ID, stories[0].ID)

	entries, err := h.recorder.List(ctx, "alice", enums.ActivityActionGenerate)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, activity.GenerateMetadata{RecordID: res.Record.ID}, entries[0].Metadata)
}

func TestGenerateWithoutCreditsNeverCallsGenerator(t *testing.T) {
	h := newHarness(t, nil)

	_, err := h.studio.Generate(context.Background(), "broke", GenerateRequest{Prompt: "x", Settings: DefaultSettings()})
	assert.Equal(t, pkgerrors.CodeInsufficientCredits, pkgerrors.CodeOf(err))
	assert.Equal(t, 0, h.gen.calls)
}

func TestGenerateFailureWritesNothing(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	h.gen.failure = errors.New("model overloaded")

	_, err := h.studio.Generate(ctx, "alice", GenerateRequest{Prompt: "x", Settings: DefaultSettings()})
	assert.Equal(t, pkgerrors.CodeDependency, pkgerrors.CodeOf(err))

	balance, err := h.ledger.Balance(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(10), balance)
	stories, err := h.library.ListByUser(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, stories)
	entries, err := h.recorder.List(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGenerateContinueKeepsTitleAndAppends(t *testing.T) {
	h := newHarness(t, nil)
	h.gen.out = library.Content{Title: "Ignored", Content: "The light went out."}
	prior := &library.Content{Title: "The Lighthouse", Content: "Waves hit the rocks.", Hashtags: []string{"#sea"}}

	res, err := h.studio.Generate(context.Background(), "alice", GenerateRequest{
		Mode:     enums.GenModeContinue,
		Settings: DefaultSettings(),
		Prior:    prior,
	})
	require.NoError(t, err)
	assert.Equal(t, "Waves hit the rocks.", h.gen.prior)
	assert.Equal(t, "The Lighthouse", res.Record.Title)
	assert.Equal(t, "Waves hit the rocks.\n\nThe light went out.", res.Record.Content)
	assert.Equal(t, []string{"#sea"}, []string(res.Record.Hashtags))
}

func TestGenerateValidation(t *testing.T) {
	h := newHarness(t, nil)
	bad := DefaultSettings()
	bad.Mood = "Grumpy"

	cases := map[string]GenerateRequest{
		"blank prompt":      {Prompt: "  ", Settings: DefaultSettings()},
		"bad settings":      {Prompt: "x", Settings: bad},
		"unknown mode":      {Prompt: "x", Settings: DefaultSettings(), Mode: "remix"},
		"continue no prior": {Settings: DefaultSettings(), Mode: enums.GenModeContinue},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := h.studio.Generate(context.Background(), "alice", req)
			assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
		})
	}
	assert.Equal(t, 0, h.gen.calls)
}

func TestGenerateUnknownUser(t *testing.T) {
	h := newHarness(t, nil)
	_, err := h.studio.Generate(context.Background(), "ghost", GenerateRequest{Prompt: "x", Settings: DefaultSettings()})
	assert.Equal(t, pkgerrors.CodeUserNotFound, pkgerrors.CodeOf(err))
}

func TestSpeakWrapsPCMAndRecords(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	speech, err := h.studio.Speak(ctx, "alice", "Hello there", "puck")
	require.NoError(t, err)
	assert.Equal(t, "Puck", speech.Voice)
	assert.Equal(t, "Puck", h.synth.voice)
	assert.Len(t, speech.WAV, audio.HeaderSize+480)
	assert.Equal(t, uint32(audio.DefaultSampleRate), speech.Header.SampleRate)
	assert.Equal(t, uint32(480), speech.Header.DataSize)

	entries, err := h.recorder.List(ctx, "alice", enums.ActivityActionTTS)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, activity.SpeechMetadata{Voice: "Puck", Characters: 11, AudioBytes: audio.HeaderSize + 480}, entries[0].Metadata)

	balance, err := h.ledger.Balance(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(10), balance, "speech is free")
}

func TestSpeakDefaultsAndErrors(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	speech, err := h.studio.Speak(ctx, "alice", "hi", "")
	require.NoError(t, err)
	assert.Equal(t, "Kore", speech.Voice)

	_, err = h.studio.Speak(ctx, "alice", "hi", "Robot")
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
	_, err = h.studio.Speak(ctx, "alice", " ", "")
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))

	h.synth.failure = errors.New("quota")
	_, err = h.studio.Speak(ctx, "alice", "hi", "")
	assert.Equal(t, pkgerrors.CodeDependency, pkgerrors.CodeOf(err))
}

func TestPurchaseAddsCredits(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	receipt, err := h.studio.Purchase(ctx, "alice", "p2")
	require.NoError(t, err)
	assert.Equal(t, int64(210), receipt.Balance)
	assert.True(t, strings.HasPrefix(receipt.ExternalRef, "ch_"))
	assert.Len(t, receipt.ExternalRef, len("ch_")+13)

	entries, err := h.recorder.List(ctx, "alice", enums.ActivityActionPurchase)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	meta, ok := entries[0].Metadata.(activity.PurchaseMetadata)
	require.True(t, ok)
	assert.Equal(t, receipt.ExternalRef, meta.ExternalRef)
	assert.True(t, decimal.NewFromInt(15).Equal(meta.Price))
	assert.Equal(t, "Producer", meta.Package)
}

func TestPurchaseFailures(t *testing.T) {
	ctx := context.Background()

	h := newHarness(t, nil)
	_, err := h.studio.Purchase(ctx, "alice", "p9")
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
	_, err = h.studio.Purchase(ctx, "ghost", "p1")
	assert.Equal(t, pkgerrors.CodeUserNotFound, pkgerrors.CodeOf(err))

	declined := newHarness(t, failingCollector{})
	_, err = declined.studio.Purchase(ctx, "alice", "p1")
	assert.Equal(t, pkgerrors.CodeDependency, pkgerrors.CodeOf(err))
	balance, err := declined.ledger.Balance(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(10), balance)
}

func TestCatalog(t *testing.T) {
	pkgs := Catalog()
	require.Len(t, pkgs, 3)
	assert.Equal(t, int64(50), pkgs[0].Credits)
	assert.Equal(t, int64(1000), pkgs[2].Credits)

	pkgs[0].Credits = 1
	again, ok := FindPackage("starter")
	require.True(t, ok)
	assert.Equal(t, int64(50), again.Credits)
}

func TestNewRequiresCollaborators(t *testing.T) {
	_, err := New(Params{})
	assert.Error(t, err)
}
