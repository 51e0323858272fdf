// Package i18n holds the localized user-facing messages.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys.
const (
	MsgDuplicate      = "score.duplicate"
	MsgImportInvalid  = "import.invalid"
	MsgNotFound       = "score.not_found"
	MsgNoCurrent      = "score.no_current"
	MsgAlreadyPlaying = "playback.already_playing"
	MsgSaved          = "score.saved"
	MsgDeleted        = "score.deleted"
	MsgImported       = "score.imported"
	MsgUnknownKey     = "score.unknown_key"
	MsgBadRequest     = "request.invalid"
	MsgRateLimited    = "request.rate_limited"
	MsgInternal       = "internal"
)

var messages = map[language.Tag]map[string]string{
	language.English: {
		MsgDuplicate:      "This score is already in your library.",
		MsgImportInvalid:  "The file is not a valid score.",
		MsgNotFound:       "Score not found.",
		MsgNoCurrent:      "No score has been generated yet.",
		MsgAlreadyPlaying: "Playback is already running.",
		MsgSaved:          "Score saved to your library.",
		MsgDeleted:        "Score deleted.",
		MsgImported:       "Score imported.",
		MsgUnknownKey:     "Unknown key %q.",
		MsgBadRequest:     "Invalid request.",
		MsgRateLimited:    "Too many requests. Please slow down.",
		MsgInternal:       "Something went wrong.",
	},
	language.Spanish: {
		MsgDuplicate:      "Esta partitura ya está en tu biblioteca.",
		MsgImportInvalid:  "El archivo no es una partitura válida.",
		MsgNotFound:       "Partitura no encontrada.",
		MsgNoCurrent:      "Todavía no se ha generado ninguna partitura.",
		MsgAlreadyPlaying: "La reproducción ya está en curso.",
		MsgSaved:          "Partitura guardada en tu biblioteca.",
		MsgDeleted:        "Partitura eliminada.",
		MsgImported:       "Partitura importada.",
		MsgUnknownKey:     "Tonalidad desconocida %q.",
		MsgBadRequest:     "Solicitud no válida.",
		MsgRateLimited:    "Demasiadas solicitudes. Espera un momento.",
		MsgInternal:       "Algo salió mal.",
	},
	language.German: {
		MsgDuplicate:      "Diese Partitur ist bereits in deiner Bibliothek.",
		MsgImportInvalid:  "Die Datei ist keine gültige Partitur.",
		MsgNotFound:       "Partitur nicht gefunden.",
		MsgNoCurrent:      "Es wurde noch keine Partitur erzeugt.",
		MsgAlreadyPlaying: "Die Wiedergabe läuft bereits.",
		MsgSaved:          "Partitur in deiner Bibliothek gespeichert.",
		MsgDeleted:        "Partitur gelöscht.",
		MsgImported:       "Partitur importiert.",
		MsgUnknownKey:     "Unbekannte Tonart %q.",
		MsgBadRequest:     "Ungültige Anfrage.",
		MsgRateLimited:    "Zu viele Anfragen. Bitte etwas langsamer.",
		MsgInternal:       "Etwas ist schiefgelaufen.",
	},
}

var cat = buildCatalog()

func buildCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, msgs := range messages {
		for key, msg := range msgs {
			if err := b.SetString(tag, key, msg); err != nil {
				panic(err)
			}
		}
	}
	return b
}

// Translator matches client languages against the supported locales.
type Translator struct {
	supported []language.Tag
	matcher   language.Matcher
}

// New creates a Translator that falls back to defaultLocale when nothing
// matches. An unsupported default is replaced by English.
func New(defaultLocale string) *Translator {
	def := language.English
	if tag, err := language.Parse(defaultLocale); err == nil {
		if _, ok := messages[tag]; ok {
			def = tag
		}
	}

	supported := []language.Tag{def}
	for _, tag := range []language.Tag{language.English, language.Spanish, language.German} {
		if tag != def {
			supported = append(supported, tag)
		}
	}
	return &Translator{supported: supported, matcher: language.NewMatcher(supported)}
}

// Match returns the supported locale closest to an Accept-Language value.
func (t *Translator) Match(acceptLanguage string) language.Tag {
	_, idx := language.MatchStrings(t.matcher, acceptLanguage)
	return t.supported[idx]
}

// Printer returns a message printer for an Accept-Language value.
func (t *Translator) Printer(acceptLanguage string) *message.Printer {
	return message.NewPrinter(t.Match(acceptLanguage), message.Catalog(cat))
}

// T formats the message key in the language best matching lang.
func (t *Translator) T(lang, key string, args ...interface{}) string {
	return t.Printer(lang).Sprintf(key, args...)
}

var defaultTranslator = New("en")

// T formats key for lang using English as the fallback locale.
func T(lang, key string, args ...interface{}) string {
	return defaultTranslator.T(lang, key, args...)
}
