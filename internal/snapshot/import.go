package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Conceptual-Machines/sightread-api/internal/models"
	"github.com/Conceptual-Machines/sightread-api/internal/music"
)

// FieldProblem describes one invalid field of an imported snapshot.
type FieldProblem struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// ValidationError is returned when an imported snapshot is structurally
// invalid. Nothing is imported when it occurs.
type ValidationError struct {
	Problems []FieldProblem
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		parts = append(parts, p.Field+": "+p.Rule)
	}
	return "invalid score file: " + strings.Join(parts, "; ")
}

// document is the loose shape of an import file. Pointers distinguish
// absent fields from zero values.
type document struct {
	ID           *string           `json:"id"`
	Key          *string           `json:"key" validate:"required,notblank"`
	Bars         *int              `json:"bars" validate:"omitempty,min=0"`
	Tempo        *float64          `json:"tempo" validate:"required,finite"`
	TimeSig      *string           `json:"timeSig" validate:"required,notblank"`
	Measures     [][]eventDocument `json:"measures" validate:"required,dive,required,dive"`
	NoteDensity  *float64          `json:"noteDensity" validate:"omitempty,finite"`
	LowestPitch  *string           `json:"lowestPitch"`
	HighestPitch *string           `json:"highestPitch"`
	CreatedAt    *float64          `json:"createdAt" validate:"omitempty,finite"`
}

type eventDocument struct {
	Pitch    *string `json:"pitch"`
	Duration *string `json:"duration" validate:"required,oneof=8 q h eighth quarter half"`
	Rest     *bool   `json:"rest"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	mustRegister(v, "notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	mustRegister(v, "finite", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	})
	v.RegisterStructValidation(validateEvent, eventDocument{})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("snapshot: register %s validation: %v", tag, err))
	}
}

// validateEvent requires a non-empty pitch on sounding notes.
func validateEvent(sl validator.StructLevel) {
	ev := sl.Current().Interface().(eventDocument)
	if ev.Rest != nil && *ev.Rest {
		return
	}
	if ev.Pitch == nil || strings.TrimSpace(*ev.Pitch) == "" {
		sl.ReportError(ev.Pitch, "pitch", "Pitch", "pitch_required", "")
	}
}

// Import parses and validates an exported score file. Optional fields that
// are missing are filled with defaults; a missing id or timestamp is
// regenerated.
func Import(data []byte) (*models.Score, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, decodeProblem(err)
	}
	if err := validate.Struct(doc); err != nil {
		return nil, validationProblems(err)
	}

	score := &models.Score{
		Key:          strings.TrimSpace(*doc.Key),
		Tempo:        int(math.Round(*doc.Tempo)),
		TimeSig:      strings.TrimSpace(*doc.TimeSig),
		Measures:     make([]models.Measure, 0, len(doc.Measures)),
		NoteDensity:  models.DefaultNoteDensity,
		LowestPitch:  models.DefaultLowestPitch,
		HighestPitch: models.DefaultHighestPitch,
	}

	for _, m := range doc.Measures {
		measure := make(models.Measure, 0, len(m))
		for _, ev := range m {
			d, _ := music.ParseDuration(*ev.Duration)
			event := models.NoteEvent{Duration: d}
			if ev.Pitch != nil {
				event.Pitch = *ev.Pitch
			}
			if ev.Rest != nil {
				event.Rest = *ev.Rest
			}
			measure = append(measure, event)
		}
		score.Measures = append(score.Measures, measure)
	}

	score.Bars = len(score.Measures)
	if doc.Bars != nil && *doc.Bars > 0 {
		score.Bars = *doc.Bars
	}
	if doc.NoteDensity != nil {
		score.NoteDensity = int(math.Round(math.Max(0, math.Min(100, *doc.NoteDensity))))
	}
	if doc.LowestPitch != nil && *doc.LowestPitch != "" {
		score.LowestPitch = *doc.LowestPitch
	}
	if doc.HighestPitch != nil && *doc.HighestPitch != "" {
		score.HighestPitch = *doc.HighestPitch
	}
	if doc.ID != nil && *doc.ID != "" {
		score.ID = *doc.ID
	} else {
		score.ID = models.NewScoreID()
	}
	if doc.CreatedAt != nil && *doc.CreatedAt > 0 {
		score.CreatedAt = int64(*doc.CreatedAt)
	} else {
		score.CreatedAt = models.NowMillis()
	}

	return score, nil
}

func decodeProblem(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = "(root)"
		}
		return &ValidationError{Problems: []FieldProblem{{Field: field, Rule: "type"}}}
	}
	return &ValidationError{Problems: []FieldProblem{{Field: "(root)", Rule: "json"}}}
}

func validationProblems(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &ValidationError{Problems: []FieldProblem{{Field: "(root)", Rule: err.Error()}}}
	}
	problems := make([]FieldProblem, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "document.")
		problems = append(problems, FieldProblem{Field: field, Rule: fe.Tag()})
	}
	return &ValidationError{Problems: problems}
}
