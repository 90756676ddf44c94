package alopeyk_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/alopeyk/pkg/alopeyk"
)

func TestValidateLatitude(t *testing.T) {
	for _, lat := range []float64{-90, -45.5, 0, 35.7, 90} {
		assert.NoError(t, alopeyk.ValidateLatitude(lat), "lat=%v", lat)
	}
	for _, lat := range []float64{-90.01, 90.01, 180, -1000} {
		assert.Error(t, alopeyk.ValidateLatitude(lat), "lat=%v", lat)
	}
}

func TestValidateLongitude(t *testing.T) {
	for _, lng := range []float64{-180, -100, 0, 51.4, 180} {
		assert.NoError(t, alopeyk.ValidateLongitude(lng), "lng=%v", lng)
	}
	for _, lng := range []float64{-180.01, 180.01, 360} {
		assert.Error(t, alopeyk.ValidateLongitude(lng), "lng=%v", lng)
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  Azadi  ", "Azadi"},
		{"<script>alert(1)</script>Vanak", "alert(1)Vanak"},
		{`Tajrish\'s square`, "Tajrish's square"},
		{"line\nbreak\x00", "linebreak"},
		{"میدان ونک", "میدان ونک"},
		{"<p></p>", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, alopeyk.Sanitize(tt.in), "input %q", tt.in)
	}
}

func TestValidateOrderID(t *testing.T) {
	id, err := alopeyk.ValidateOrderID(" 42 ")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	id, err = alopeyk.ValidateOrderID("+7")
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)

	id, err = alopeyk.ValidateOrderID("-4")
	require.NoError(t, err)
	assert.Equal(t, int64(-4), id)

	for _, bad := range []string{"", "0", "-0", "4.2", "forty", "<b>12</b>x"} {
		_, err := alopeyk.ValidateOrderID(bad)
		assert.Error(t, err, "id=%q", bad)
	}
}
