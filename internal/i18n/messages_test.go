package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestMatch(t *testing.T) {
	tr := New("en")
	tests := []struct {
		accept string
		want   language.Tag
	}{
		{"", language.English},
		{"de-CH,de;q=0.9,en;q=0.5", language.German},
		{"es-MX", language.Spanish},
		{"fr-FR", language.English},
		{"not a language", language.English},
	}
	for _, tt := range tests {
		t.Run(tt.accept, func(t *testing.T) {
			assert.Equal(t, tt.want, tr.Match(tt.accept))
		})
	}
}

func TestDefaultLocale(t *testing.T) {
	assert.Equal(t, language.German, New("de").Match("fr"))
	assert.Equal(t, language.English, New("xx-invalid").Match("fr"))
	assert.Equal(t, language.Spanish, New("de").Match("es"))
}

func TestTranslations(t *testing.T) {
	tests := []struct {
		lang string
		key  string
		want string
	}{
		{"en", MsgDuplicate, "This score is already in your library."},
		{"es", MsgDuplicate, "Esta partitura ya está en tu biblioteca."},
		{"de", MsgDuplicate, "Diese Partitur ist bereits in deiner Bibliothek."},
		{"de-AT", MsgNotFound, "Partitur nicht gefunden."},
		{"es", MsgAlreadyPlaying, "La reproducción ya está en curso."},
		{"en", MsgImportInvalid, "The file is not a valid score."},
	}
	for _, tt := range tests {
		t.Run(tt.lang+"/"+tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, T(tt.lang, tt.key))
		})
	}
}

func TestTranslationArguments(t *testing.T) {
	assert.Equal(t, `Unknown key "H".`, T("en", MsgUnknownKey, "H"))
	assert.Equal(t, `Unbekannte Tonart "H".`, T("de", MsgUnknownKey, "H"))
}

func TestEveryLocaleHasEveryMessage(t *testing.T) {
	for key := range messages[language.English] {
		for tag, msgs := range messages {
			assert.NotEmpty(t, msgs[key], "%s missing %s", tag, key)
		}
	}
}
