package api

import (
	"github.com/JaimeStill/taxon/internal/classifications"
	"github.com/JaimeStill/taxon/internal/papers"
	"github.com/JaimeStill/taxon/internal/questions"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Classifications classifications.System
	Questions       questions.System
	Papers          papers.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	guard := runtime.Guard()

	classificationsSystem := classifications.New(
		runtime.Database.Connection(),
		runtime.Engine,
		guard,
		runtime.Logger,
		runtime.Pagination,
	)

	questionsSystem := questions.New(
		runtime.Database.Connection(),
		classificationsSystem,
		guard,
		runtime.Logger,
		runtime.Pagination,
	)

	papersSystem := papers.New(
		runtime.Database.Connection(),
		classificationsSystem,
		guard,
		runtime.Logger,
		runtime.Pagination,
	)

	return &Domain{
		Classifications: classificationsSystem,
		Questions:       questionsSystem,
		Papers:          papersSystem,
	}
}
