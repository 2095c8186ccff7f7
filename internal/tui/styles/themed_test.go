package styles

import "testing"

func TestIsValidTheme(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"default", true},
		{"mono", true},
		{"dracula", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsValidTheme(tt.name); got != tt.want {
			t.Errorf("IsValidTheme(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestGetPalette(t *testing.T) {
	if got := GetPalette(ThemeMono); *got != (ColorPalette{}) {
		t.Errorf("mono palette has colors: %+v", got)
	}
	if got := GetPalette("unknown"); got.Primary != DefaultPalette().Primary {
		t.Errorf("unknown theme should fall back to default, got %+v", got)
	}
}

func TestSetActiveTheme(t *testing.T) {
	t.Cleanup(func() { SetActiveTheme(ThemeDefault) })

	SetActiveTheme(ThemeMono)
	if Active().Palette.Primary != "" {
		t.Errorf("Primary = %q after switching to mono", Active().Palette.Primary)
	}
	if got := Active().Title.Render("Levels"); got == "" {
		t.Error("Title rendered nothing")
	}

	SetActiveTheme(ThemeDefault)
	if Active().Palette.Primary != DefaultPalette().Primary {
		t.Error("default theme not restored")
	}
}
