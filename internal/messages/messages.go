// Package messages holds the user-facing status strings of the photopages
// command in English and Russian.
//
// Keys are the English format strings. Callers obtain a printer for the
// requested language and format keys through it:
//
//	p := messages.Printer("ru")
//	fmt.Fprintln(os.Stderr, p.Sprintf(messages.Loaded, 3))
package messages

import (
	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys.
const (
	Loaded         = "Loaded %d images"
	Removed        = "Removed image. %d remaining"
	NoImages       = "No images to process"
	NoPreview      = "No images to preview"
	LoadFailed     = "Error loading image: %v"
	ProcessFailed  = "Could not process %s: %v"
	Saved          = "File saved successfully: %s"
	SaveFailed     = "Could not save file: %v"
	PreviewWritten = "Preview written to %s"
	Skipped        = "%d of %d images were skipped"
)

var cat = newCatalog()

func newCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))

	set := func(tag language.Tag, key string, msg ...catalog.Message) {
		if err := b.Set(tag, key, msg...); err != nil {
			panic("messages: " + key + ": " + err.Error())
		}
	}
	str := func(tag language.Tag, key, s string) {
		set(tag, key, catalog.String(s))
	}

	en := language.English
	set(en, Loaded, plural.Selectf(1, "%d",
		"=1", "Loaded %d image",
		plural.Other, "Loaded %d images",
	))
	str(en, Removed, Removed)
	str(en, NoImages, NoImages)
	str(en, NoPreview, NoPreview)
	str(en, LoadFailed, LoadFailed)
	str(en, ProcessFailed, ProcessFailed)
	str(en, Saved, Saved)
	str(en, SaveFailed, SaveFailed)
	str(en, PreviewWritten, PreviewWritten)
	str(en, Skipped, Skipped)

	ru := language.Russian
	set(ru, Loaded, plural.Selectf(1, "%d",
		plural.One, "Загружено %d изображение",
		plural.Few, "Загружено %d изображения",
		plural.Other, "Загружено %d изображений",
	))
	str(ru, Removed, "Удалено изображение. Осталось: %d")
	str(ru, NoImages, "Нет изображений для обработки")
	str(ru, NoPreview, "Нет изображений для предпросмотра")
	str(ru, LoadFailed, "Ошибка загрузки изображения: %v")
	str(ru, ProcessFailed, "Не удалось обработать %s: %v")
	str(ru, Saved, "Файл успешно сохранен: %s")
	str(ru, SaveFailed, "Не удалось сохранить файл: %v")
	str(ru, PreviewWritten, "Предпросмотр сохранен в %s")
	str(ru, Skipped, "Пропущено изображений: %d из %d")

	return b
}

// Languages returns the languages with a translation.
func Languages() []language.Tag {
	return cat.Languages()
}

// Printer returns a printer for the best match of lang, which may be a BCP 47
// tag such as "ru" or "en-GB". Unknown or malformed tags get English.
func Printer(lang string) *message.Printer {
	return message.NewPrinter(Match(lang), message.Catalog(cat))
}

// Match returns the supported language closest to lang.
func Match(lang string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(lang)
	if err != nil || len(tags) == 0 {
		return language.English
	}
	_, i, conf := cat.Matcher().Match(tags...)
	if conf == language.No {
		return language.English
	}
	return cat.Languages()[i]
}
