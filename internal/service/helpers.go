package service

import (
	"math"
	"strings"

	"github.com/noah-isme/b-learning-api/internal/dto"
	"github.com/noah-isme/b-learning-api/internal/repository"
)

func page(params dto.ListParams) repository.Page {
	return repository.Page{Limit: params.Limit, Offset: params.Offset}
}

func roundScore(value *float64) *float64 {
	if value == nil {
		return nil
	}
	rounded := math.Round(*value*100) / 100
	return &rounded
}

func fullName(first, last string) string {
	return strings.TrimSpace(first + " " + last)
}

func optionalName(first, last *string) string {
	if first == nil && last == nil {
		return ""
	}
	var f, l string
	if first != nil {
		f = *first
	}
	if last != nil {
		l = *last
	}
	return fullName(f, l)
}

func setIfPresent[T any](updates map[string]interface{}, column string, value *T) {
	if value != nil {
		updates[column] = *value
	}
}
