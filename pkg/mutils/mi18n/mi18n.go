package mi18n

import (
	"embed"
	"encoding/json"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed i18n/*.json
var messageFiles embed.FS

var (
	bundle    *i18n.Bundle
	localizer *i18n.Localizer
	mu        sync.RWMutex
)

func init() {
	bundle = i18n.NewBundle(language.Japanese)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)
	for _, path := range []string{"i18n/ja.json", "i18n/en.json"} {
		// 読めない場合はTがキーをそのまま返す
		_, _ = bundle.LoadMessageFileFS(messageFiles, path)
	}
	localizer = i18n.NewLocalizer(bundle, language.Japanese.String())
}

// SetLang 表示言語の切り替え
func SetLang(lang string) {
	mu.Lock()
	defer mu.Unlock()
	localizer = i18n.NewLocalizer(bundle, lang)
}

// T メッセージの翻訳。見つからない場合はキーをそのまま返す
func T(key string, params ...map[string]interface{}) string {
	mu.RLock()
	defer mu.RUnlock()

	config := &i18n.LocalizeConfig{MessageID: key}
	if len(params) > 0 {
		config.TemplateData = params[0]
	}

	message, err := localizer.Localize(config)
	if err != nil {
		return key
	}
	return message
}
