package program

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/myrjola/programsmith/internal/ai"
	"github.com/myrjola/programsmith/internal/errors"
	"github.com/myrjola/programsmith/internal/logging"
	"github.com/myrjola/programsmith/internal/sqlite"
)

var (
	// ErrInvalidProfile is returned for profiles without valid goals. Nothing is generated.
	ErrInvalidProfile = errors.NewSentinel("invalid training profile")
	// ErrConfiguration is returned when the generation collaborator is not configured. Nothing is generated.
	ErrConfiguration = errors.NewSentinel("program generation is not configured")
	// ErrNotFound is returned when no stored program has the requested id.
	ErrNotFound = errors.NewSentinel("program not found")
)

// State is a step of a single generation.
type State string

const (
	StateRequested         State = "requested"
	StateAwaitingCandidate State = "awaiting-candidate"
	StateValidating        State = "validating"
	StateAccepted          State = "accepted"
	StateRejected          State = "rejected"
	StateSynthesizing      State = "synthesizing"
	StateReturned          State = "returned"
)

// FallbackReason tells why a program was synthesized instead of taken from the generator.
type FallbackReason string

const (
	FallbackNone              FallbackReason = ""
	FallbackGenerationFailed  FallbackReason = "generation-failed"
	FallbackGenerationTimeout FallbackReason = "generation-timeout"
	FallbackUnparseable       FallbackReason = "unparseable-response"
	FallbackRejected          FallbackReason = "candidate-rejected"
	// FallbackRequested marks programs synthesized directly without asking the generator.
	FallbackRequested FallbackReason = "synthesis-requested"
)

// Result is a returned program with the input adjustments that shaped it.
type Result struct {
	Program        GeneratedProgram `json:"program"`
	Deviations     []Deviation      `json:"deviations,omitempty"`
	FallbackReason FallbackReason   `json:"-"`
}

// DefaultGenerationTimeout bounds the external call when no timeout is configured.
const DefaultGenerationTimeout = 25 * time.Second

// Service generates programs. It holds no per-request state and is safe for concurrent use.
type Service struct {
	completer ai.Completer
	repo      *sqliteRepository
	logger    *slog.Logger
	timeout   time.Duration
}

// NewService creates a program service.
//
// A nil completer makes every generation fail with ErrConfiguration. A nil db disables persistence.
func NewService(db *sqlite.Database, completer ai.Completer, logger *slog.Logger, timeout time.Duration) *Service {
	var repo *sqliteRepository
	if db != nil {
		repo = newSQLiteRepository(db, logger)
	}
	if timeout <= 0 {
		timeout = DefaultGenerationTimeout
	}
	return &Service{
		completer: completer,
		repo:      repo,
		logger:    logger,
		timeout:   timeout,
	}
}

// ValidateProfile reports input errors that stop a request before generation. It wraps ErrInvalidProfile.
func ValidateProfile(profile TrainingProfile) error {
	if len(profile.Goals) == 0 {
		return errors.Wrap(ErrInvalidProfile, "goals must not be empty")
	}
	for i, g := range profile.Goals {
		if !g.Valid() {
			return errors.Wrap(ErrInvalidProfile, "unknown goal", slog.Int("index", i), slog.String("goal", string(g)))
		}
	}
	return nil
}

// Generate returns a valid program for profile.
//
// The external generator gets one attempt bounded by the service timeout. Generator failures, unparseable responses
// and rejected candidates are never returned as errors; a program is synthesized instead. Errors are reserved for
// ErrInvalidProfile, ErrConfiguration and cancellation of ctx by the caller.
func (s *Service) Generate(ctx context.Context, profile TrainingProfile) (Result, error) {
	if err := ValidateProfile(profile); err != nil {
		return Result{}, err
	}
	if s.completer == nil {
		return Result{}, fmt.Errorf("%w: %w", ErrConfiguration, ai.ErrMissingCredentials)
	}

	id := uuid.NewString()
	ctx = logging.WithAttrs(ctx, slog.String("request_id", id))
	s.transition(ctx, StateRequested)

	constraints := Derive(profile)
	split, deviation := SelectSplit(profile.DaysPerWeek, profile.ProgramStyle)
	if deviation != nil {
		s.logDeviation(ctx, *deviation)
	}

	candidate, reason := s.requestCandidate(ctx, id, profile, constraints, split)
	if err := ctx.Err(); err != nil {
		return Result{}, errors.Wrap(err, "generate program")
	}

	var result Result
	if reason == FallbackNone {
		// The candidate has exactly the requested days, so a split deviation only shaped the instruction.
		candidate.IsCustom = true
		candidate.IsAIGenerated = true
		candidate.Provenance = ProvenanceExternal
		result = Result{Program: candidate, Deviations: nil, FallbackReason: FallbackNone}
	} else {
		s.transition(ctx, StateSynthesizing, slog.String("reason", string(reason)))
		result = s.synthesize(ctx, profile, constraints, reason)
		result.Program.ID = id
	}

	s.transition(ctx, StateReturned, slog.String("provenance", string(result.Program.Provenance)))
	s.store(ctx, profile, result)
	return result, nil
}

// requestCandidate asks the generator for a program and validates it. It returns FallbackNone with the candidate when
// the candidate was accepted.
func (s *Service) requestCandidate(
	ctx context.Context,
	id string,
	profile TrainingProfile,
	constraints DerivedConstraints,
	split Split,
) (GeneratedProgram, FallbackReason) {
	instruction := BuildInstruction(id, profile, constraints, split)

	genCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	s.transition(ctx, StateAwaitingCandidate, slog.Duration("timeout", s.timeout))
	start := time.Now()
	text, err := s.completer.Complete(genCtx, instruction.System, instruction.User)
	if err != nil {
		reason := FallbackGenerationFailed
		if errors.Is(genCtx.Err(), context.DeadlineExceeded) {
			reason = FallbackGenerationTimeout
		}
		s.logger.LogAttrs(ctx, slog.LevelWarn, "program generation failed",
			slog.String("reason", string(reason)), slog.Duration("duration", time.Since(start)), errors.SlogError(err))
		return GeneratedProgram{}, reason
	}

	s.transition(ctx, StateValidating, slog.Duration("duration", time.Since(start)))
	switch outcome := ParseCandidate(text).(type) {
	case ParseFailure:
		s.transition(ctx, StateRejected, slog.String("reason", outcome.Reason), errors.SlogError(outcome.Err))
		return GeneratedProgram{}, FallbackUnparseable
	case Parsed:
		if verdict := Validate(outcome.Candidate, profile); !verdict.OK() {
			s.transition(ctx, StateRejected,
				slog.Int("violations", len(verdict.Violations)), slog.String("detail", verdict.String()))
			return GeneratedProgram{}, FallbackRejected
		}
		s.transition(ctx, StateAccepted)
		return outcome.Candidate, FallbackNone
	}
	return GeneratedProgram{}, FallbackUnparseable
}

func (s *Service) synthesize(
	ctx context.Context,
	profile TrainingProfile,
	constraints DerivedConstraints,
	reason FallbackReason,
) Result {
	days, deviation := FallbackDays(profile.DaysPerWeek)
	var deviations []Deviation
	if deviation != nil {
		s.logDeviation(ctx, *deviation)
		deviations = append(deviations, *deviation)
	}
	split, _ := SelectSplit(days, profile.ProgramStyle)
	p := Synthesize(profile, constraints, split)
	p.IsAIGenerated = false
	p.Provenance = ProvenanceFallback
	s.logger.LogAttrs(ctx, slog.LevelInfo, "synthesized fallback program",
		slog.String("reason", string(reason)), slog.String("split", string(split)), slog.Int("days", days))
	return Result{Program: p, Deviations: deviations, FallbackReason: reason}
}

// SynthesizeFallback builds a fallback program for profile without contacting the generator. The profile must be
// valid according to ValidateProfile.
func (s *Service) SynthesizeFallback(ctx context.Context, profile TrainingProfile) (Result, error) {
	if err := ValidateProfile(profile); err != nil {
		return Result{}, err
	}
	return s.synthesize(ctx, profile, Derive(profile), FallbackRequested), nil
}

// Get returns a stored program. It returns ErrNotFound for unknown ids and when persistence is disabled.
func (s *Service) Get(ctx context.Context, id string) (StoredProgram, error) {
	if s.repo == nil {
		return StoredProgram{}, ErrNotFound
	}
	return s.repo.get(ctx, id)
}

// store persists result. Persistence is not part of the guaranteed path, so failures are only logged.
func (s *Service) store(ctx context.Context, profile TrainingProfile, result Result) {
	if s.repo == nil {
		return
	}
	if err := s.repo.save(ctx, profile, result); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelError, "failed to store program",
			slog.String("program_id", result.Program.ID), errors.SlogError(err))
	}
}

func (s *Service) transition(ctx context.Context, to State, attrs ...slog.Attr) {
	s.logger.LogAttrs(ctx, slog.LevelDebug, "generation state", append([]slog.Attr{slog.String("state", string(to))}, attrs...)...)
}

func (s *Service) logDeviation(ctx context.Context, d Deviation) {
	s.logger.LogAttrs(ctx, slog.LevelWarn, "adjusted profile value",
		slog.String("field", d.Field), slog.Int("requested", d.Requested), slog.Int("applied", d.Applied),
		slog.String("reason", d.Reason))
}
