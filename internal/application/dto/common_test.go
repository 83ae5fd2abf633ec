package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/caja-pos/internal/application/dto"
)

func TestPageRequest_Normalize(t *testing.T) {
	cases := []struct {
		name string
		in   dto.PageRequest
		want dto.PageRequest
	}{
		{"sin valores", dto.PageRequest{}, dto.PageRequest{Limit: dto.DefaultPageLimit}},
		{"dentro del rango", dto.PageRequest{Limit: 50, Offset: 10}, dto.PageRequest{Limit: 50, Offset: 10}},
		{"límite excesivo", dto.PageRequest{Limit: 1000}, dto.PageRequest{Limit: dto.MaxPageLimit}},
		{"negativos", dto.PageRequest{Limit: -5, Offset: -3}, dto.PageRequest{Limit: dto.DefaultPageLimit}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.in.Normalize())
		})
	}
}
