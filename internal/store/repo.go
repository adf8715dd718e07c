package store

import (
	"github.com/abhisek/quizbank/internal/ledger"
	"github.com/abhisek/quizbank/internal/practice"
	"github.com/abhisek/quizbank/internal/session"
)

// Compile-time checks that the repositories satisfy the domain interfaces.
var (
	_ ledger.Repo              = (*PerformanceRepo)(nil)
	_ practice.BankRepo        = (*BankRepo)(nil)
	_ practice.PerformanceRepo = (*PerformanceRepo)(nil)
	_ practice.SessionRepo     = (*SessionRepo)(nil)
	_ practice.TemplateRepo    = (*TemplateRepo)(nil)
	_ session.Store            = (*SessionRepo)(nil)
)
