package uploader

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys double as the English format strings.
const (
	msgInvalidType = "file %[1]s has type %[2]q, expected %[3]s"
	msgTooSmall    = "file %[1]s is too small: %[2]d bytes, minimum is %[3]d bytes"
	msgTooLarge    = "file %[1]s is too large: %[2]d bytes, maximum is %[3]d bytes"
)

// SupportedLanguages lists the languages validation messages are
// translated to. The first entry is the fallback.
var SupportedLanguages = []language.Tag{
	language.English,
	language.Chinese,
}

var messages = newCatalog()

func newCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))

	for _, key := range []string{msgInvalidType, msgTooSmall, msgTooLarge} {
		_ = b.SetString(language.English, key, key)
	}

	_ = b.SetString(language.Chinese, msgInvalidType, "上传文件类型错误: %[1]s 不是 %[3]s 类型 (%[2]q)")
	_ = b.SetString(language.Chinese, msgTooSmall, "上传文件不能小于 %[3]d 字节: %[1]s 为 %[2]d 字节")
	_ = b.SetString(language.Chinese, msgTooLarge, "上传文件不能大于 %[3]d 字节: %[1]s 为 %[2]d 字节")

	return b
}

// Localize renders the message in the closest supported language.
func (e *ValidationError) Localize(tag language.Tag) string {
	if e.key == "" {
		return e.Message
	}
	p := message.NewPrinter(tag, message.Catalog(messages))
	return p.Sprintf(e.key, e.args...)
}
