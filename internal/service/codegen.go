package service

import (
	"context"
	"crypto/rand"
	"io"
	"math/big"

	"waitlist_ledger/internal/metrics"
	"waitlist_ledger/pkg/logger"

	"go.uber.org/zap"
)

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	DefaultCodeLength    = 6
	DefaultCodeMaxLength = 8
	DefaultCodeAttempts  = 10
)

type CodeConfig struct {
	Length    int `yaml:"codeLength" mapstructure:"codeLength"`
	MaxLength int `yaml:"codeMaxLength" mapstructure:"codeMaxLength"`
	Attempts  int `yaml:"codeAttempts" mapstructure:"codeAttempts"`
}

// CodeGenerator mints referral codes that are unique against storage. It tries
// Attempts random codes per length, starting at Length and widening by one
// character at a time up to MaxLength, then gives up with ErrCodeSpaceExhausted.
type CodeGenerator struct {
	length    int
	maxLength int
	attempts  int
	source    io.Reader
}

func NewCodeGenerator(cfg CodeConfig) *CodeGenerator {
	g := &CodeGenerator{
		length:    cfg.Length,
		maxLength: cfg.MaxLength,
		attempts:  cfg.Attempts,
		source:    rand.Reader,
	}
	if g.length <= 0 {
		g.length = DefaultCodeLength
	}
	if g.maxLength < g.length {
		g.maxLength = g.length
	}
	if g.attempts <= 0 {
		g.attempts = DefaultCodeAttempts
	}
	return g
}

func (g *CodeGenerator) Generate(ctx context.Context, exists func(ctx context.Context, code string) (bool, error)) (string, error) {
	for length := g.length; length <= g.maxLength; length++ {
		if length > g.length {
			metrics.IncCodeWidening()
			logger.Logger().Warn("widening referral code length", zap.Int("length", length))
		}

		for i := 0; i < g.attempts; i++ {
			if err := ctx.Err(); err != nil {
				return "", err
			}

			code, err := g.random(length)
			if err != nil {
				return "", err
			}

			taken, err := exists(ctx, code)
			if err != nil {
				return "", err
			}
			if !taken {
				return code, nil
			}

			metrics.IncCodeCollision()
		}
	}

	return "", ErrCodeSpaceExhausted
}

func (g *CodeGenerator) random(length int) (string, error) {
	base := big.NewInt(int64(len(codeAlphabet)))
	code := make([]byte, length)
	for i := range code {
		n, err := rand.Int(g.source, base)
		if err != nil {
			return "", err
		}
		code[i] = codeAlphabet[n.Int64()]
	}
	return string(code), nil
}
