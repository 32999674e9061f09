package services

import (
	"context"
	"log"

	"quizforge-backend/internal/models"
)

const DefaultOverprovision = 5

type Assembler struct {
	generator     QuestionGenerator
	classifier    DuplicateChecker
	overprovision int
}

func NewAssembler(generator QuestionGenerator, classifier DuplicateChecker, overprovision int) *Assembler {
	if overprovision < 0 {
		overprovision = DefaultOverprovision
	}
	return &Assembler{
		generator:     generator,
		classifier:    classifier,
		overprovision: overprovision,
	}
}

// AssembleUnique requests req.Count plus the over-provision margin in one
// generation call, then accepts candidates in order until req.Count are
// unique against seed and against each other. There is no second generation
// round: exhaustion returns a short batch. Never returns nil.
func (a *Assembler) AssembleUnique(ctx context.Context, req models.GenerationRequest, seed []string) []models.Question {
	target := req.Count
	accepted := make([]models.Question, 0, max(target, 0))
	if target <= 0 {
		return accepted
	}

	genReq := req
	genReq.Count = target + a.overprovision

	candidates, err := a.generator.Generate(ctx, genReq)
	if err != nil {
		log.Printf("assemble: generation failed (topics=%v, target=%d): %v", req.Topics, target, err)
		return accepted
	}
	if len(candidates) == 0 {
		log.Printf("assemble: generation returned no valid candidates (topics=%v)", req.Topics)
		return accepted
	}

	// Working corpus is owned by this call.
	known := make([]string, len(seed), len(seed)+target)
	copy(known, seed)

	rejected := 0
	for _, candidate := range candidates {
		if len(accepted) >= target {
			break
		}
		verdict := a.classifier.CheckDuplicate(ctx, candidate, known)
		if verdict.IsDuplicate {
			rejected++
			continue
		}
		accepted = append(accepted, candidate)
		known = append(known, candidate.Text())
	}

	log.Printf("assemble: accepted %d/%d (candidates=%d, duplicates=%d)", len(accepted), target, len(candidates), rejected)
	return accepted
}
