package transcode

import "testing"

func TestValidateQualityInRange(t *testing.T) {
	for q := 0; q <= 9; q++ {
		if err := ValidateQuality(q); err != nil {
			t.Fatalf("ValidateQuality(%d) = %v, want nil", q, err)
		}
	}
}

func TestValidateQualityOutOfRange(t *testing.T) {
	for _, q := range []int{-1, 10, 100} {
		if err := ValidateQuality(q); err == nil {
			t.Fatalf("ValidateQuality(%d) = nil, want error", q)
		}
	}
}
