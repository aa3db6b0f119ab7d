package synth

import (
	"github.com/pkg/errors"

	"github.com/lhaig/whilesynth/internal/holes"
	"github.com/lhaig/whilesynth/internal/parser"
)

// Errors returned by the synthesis entry points. Match them with errors.Is.
var (
	ErrProgramNotValid          = parser.ErrInvalidProgram
	ErrProgramHasNoHoles        = holes.ErrNoHoles
	ErrProgramHasInvalidVarName = holes.ErrInvalidVarName
	ErrNoExamplesProvided       = errors.New("no examples provided")
	// ErrProgramNotVerified means no hole assignment exists, bounded or not.
	ErrProgramNotVerified = errors.New("program not verified")
	// ErrSessionFinished is returned by Step on a terminal session.
	ErrSessionFinished = errors.New("session already finished")
)
