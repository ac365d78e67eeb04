package meta

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		// Basic folding
		{"Amazing Grace", "AMAZING GRACE"},
		{"  amazing grace  ", "AMAZING GRACE"},
		{"Holy, Holy, Holy!", "HOLY HOLY HOLY"},

		// Removed characters leave their spaces behind
		{"It Is Well - With My Soul", "IT IS WELL  WITH MY SOUL"},
		{"Song ?", "SONG"},
		{"12 Days", "DAYS"},

		// Diacritics and compatibility forms
		{"Café", "CAFE"},
		{"Jesús es mi Rey", "JESUS ES MI REY"},
		{"ﬁrm foundation", "FIRM FOUNDATION"},
		{"God’s Love", "GODS LOVE"},

		// Mis-encoded apostrophe is not transliterated to AE
		{"IÆm redeemed", "IM REDEEMED"},
		{"Iæll fly away", "ILL FLY AWAY"},

		// Lines are joined with a single space each
		{"Line one\nLine two", "LINE ONE LINE TWO"},
		{"Line one\r\nLine two", "LINE ONE LINE TWO"},
		{"Stanza\n\nNext", "STANZA  NEXT"},

		// Tabs are not spaces
		{"A\tB", "AB"},

		// Empty/whitespace
		{"", ""},
		{"   ", ""},
		{"123 456", ""},
	}

	for _, tt := range tests {
		result := Normalize(tt.input)
		if result != tt.expected {
			t.Errorf("Normalize(%q) = %q, expected %q", tt.input, result, tt.expected)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Amazing Grace",
		"It Is Well - With My Soul",
		"  ¡Cristo vive!  ",
		"IÆm redeemed\r\nby the blood",
		"O for a thousand tongues to sing\n\nMy great Redeemer's praise",
		"Song ?",
		"",
		"ÀÉÎÕÜ çñ",
	}

	for _, input := range inputs {
		once := Normalize(input)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q then %q", input, once, twice)
		}
	}
}

func TestNormalizeOnlyLettersAndSpaces(t *testing.T) {
	input := "“Be Thou my Vision” — O Lord of my heart; 1-2-3 (Slane) ©"
	result := Normalize(input)
	for _, r := range result {
		if (r < 'A' || r > 'Z') && r != ' ' {
			t.Fatalf("Normalize(%q) = %q contains %q", input, result, r)
		}
	}
	if strings.HasPrefix(result, " ") || strings.HasSuffix(result, " ") {
		t.Errorf("Normalize(%q) = %q has surrounding spaces", input, result)
	}
}

func TestPrepare(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{" 12 ", "12"},
		{"hgg 123", "HGG 123"},
		{"tsms\n12", "TSMS 12"},
		{"Café 7", "CAFE 7"},
		{"", ""},
	}

	for _, tt := range tests {
		result := Prepare(tt.input)
		if result != tt.expected {
			t.Errorf("Prepare(%q) = %q, expected %q", tt.input, result, tt.expected)
		}
	}
}

func TestCollapseSpaces(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"IT IS WELL  WITH MY SOUL", "IT IS WELL WITH MY SOUL"},
		{"  A   B  ", "A B"},
		{"", ""},
	}

	for _, tt := range tests {
		result := CollapseSpaces(tt.input)
		if result != tt.expected {
			t.Errorf("CollapseSpaces(%q) = %q, expected %q", tt.input, result, tt.expected)
		}
	}
}

func TestIsDigits(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"12", true},
		{"007", true},
		{"", false},
		{"12a", false},
		{"-1", false},
		{"1 2", false},
	}

	for _, tt := range tests {
		if result := IsDigits(tt.input); result != tt.expected {
			t.Errorf("IsDigits(%q) = %v, expected %v", tt.input, result, tt.expected)
		}
	}
}

func TestDisplayTitle(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"AMAZING GRACE", "Amazing Grace"},
		{"O FOR A THOUSAND TONGUES TO SING", "O for a Thousand Tongues to Sing"},
		{"'TIS SO SWEET", "'Tis So Sweet"},
		{"the love of God", "The Love of God"},
		{"  ", ""},
	}

	for _, tt := range tests {
		result := DisplayTitle(tt.input)
		if result != tt.expected {
			t.Errorf("DisplayTitle(%q) = %q, expected %q", tt.input, result, tt.expected)
		}
	}
}
