package extract

import "testing"

func TestPublicScore(t *testing.T) {
	tests := []struct {
		name string
		html string
		want float64
	}{
		{"present", `...{"publicScore":"0.77990","other":1}...`, 0.7799},
		{"first match wins", `"publicScore":"0.5" "publicScore":"0.9"`, 0.5},
		{"absent", `<html>no scores here</html>`, 0},
		{"unparsable", `"publicScore":"pending"`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PublicScore(tt.html); got != tt.want {
				t.Errorf("PublicScore = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBestPublicScore(t *testing.T) {
	tests := []struct {
		name string
		html string
		want float64
	}{
		{"bare number", `{"bestPublicScore":0.81234,"x":2}`, 0.81234},
		{"quoted number", `{"bestPublicScore":"0.5","x":2}`, 0.5},
		{"absent", `{}`, 0},
		{"null", `{"bestPublicScore":null,"x":2}`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BestPublicScore(tt.html); got != tt.want {
				t.Errorf("BestPublicScore = %v, want %v", got, tt.want)
			}
		})
	}
}
