package ui

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyAppTitle           = "app_title"
	KeyVideoURL           = "video_url"
	KeyEnterURL           = "enter_url"
	KeyFrameCount         = "frame_count"
	KeyStart              = "start"
	KeyReady              = "ready"
	KeyGettingInfo        = "getting_info"
	KeyDownloadingVideo   = "downloading_video"
	KeyExtracting         = "extracting"
	KeyExtractingCount    = "extracting_count"
	KeyProcessed          = "processed"
	KeySuccess            = "success"
	KeyProcessFailed      = "process_failed"
	KeyComplete           = "complete"
	KeyCompleteMessage    = "complete_message"
	KeyError              = "error"
	KeyErrorOccurred      = "error_occurred"
	KeyPleaseEnterURL     = "please_enter_url"
	KeyInvalidFrameCount  = "invalid_frame_count"
	KeyErrorOpeningFolder = "error_opening_folder"
	KeySettings           = "settings"
	KeyFile               = "file"
	KeyLanguage           = "language"
	KeyVideoDirectory     = "video_directory"
	KeyDefaultFrameCount  = "default_frame_count"
	KeyAutoReveal         = "auto_reveal"
	KeySave               = "save"
	KeyCancel             = "cancel"
	KeyBrowse             = "browse"
	KeySettingsSaved      = "settings_saved"
)

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	l := &Localization{
		currentLanguage: "en",
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	return l
}

// SetLanguage sets the current language
func (l *Localization) SetLanguage(lang string) {
	if lang == "system" {
		// Use system locale - simplified to English for now
		lang = "en"
	}

	if _, exists := l.texts[lang]; exists {
		l.currentLanguage = lang
	}
}

// GetText returns localized text for the given key
func (l *Localization) GetText(key string) string {
	if texts, exists := l.texts[l.currentLanguage]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Fallback to English
	if texts, exists := l.texts["en"]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Final fallback - return key itself
	return key
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	return l.currentLanguage
}

// GetAvailableLanguages returns map of available languages with their display names
func (l *Localization) GetAvailableLanguages() map[string]string {
	return map[string]string{
		"en": "English",
		"ru": "Русский",
		"pt": "Português",
	}
}

// initializeTexts initializes all text translations
func (l *Localization) initializeTexts() {
	// English texts
	l.texts["en"] = map[string]string{
		KeyAppTitle:           "Enhanced YouTube Frame Extractor",
		KeyVideoURL:           "YouTube Video URL:",
		KeyEnterURL:           "https://youtube.com/watch?v=...",
		KeyFrameCount:         "Number of Frames to Extract:",
		KeyStart:              "Download & Extract HQ Frames",
		KeyReady:              "Ready",
		KeyGettingInfo:        "Getting video information...",
		KeyDownloadingVideo:   "Downloading video...",
		KeyExtracting:         "Extracting and enhancing frames...",
		KeyExtractingCount:    "Extracting %d frames...",
		KeyProcessed:          "Processed %d/%d frames",
		KeySuccess:            "Success! %d frames extracted",
		KeyProcessFailed:      "Process failed",
		KeyComplete:           "Complete",
		KeyCompleteMessage:    "Successfully extracted %d frames to:\n%s",
		KeyError:              "Error",
		KeyErrorOccurred:      "An error occurred:\n%s",
		KeyPleaseEnterURL:     "Please enter a YouTube URL",
		KeyInvalidFrameCount:  "Please enter a valid number of frames (1 or more)",
		KeyErrorOpeningFolder: "Error opening folder",
		KeySettings:           "Settings",
		KeyFile:               "File",
		KeyLanguage:           "Language",
		KeyVideoDirectory:     "Video Directory",
		KeyDefaultFrameCount:  "Default Number of Frames",
		KeyAutoReveal:         "Open folder when finished",
		KeySave:               "Save",
		KeyCancel:             "Cancel",
		KeyBrowse:             "Browse",
		KeySettingsSaved:      "Settings saved successfully!",
	}

	// Russian texts
	l.texts["ru"] = map[string]string{
		KeyAppTitle:           "Извлечение кадров YouTube",
		KeyVideoURL:           "URL видео YouTube:",
		KeyEnterURL:           "https://youtube.com/watch?v=...",
		KeyFrameCount:         "Количество кадров:",
		KeyStart:              "Скачать и извлечь кадры",
		KeyReady:              "Готово",
		KeyGettingInfo:        "Получение информации о видео...",
		KeyDownloadingVideo:   "Загрузка видео...",
		KeyExtracting:         "Извлечение и улучшение кадров...",
		KeyExtractingCount:    "Извлечение кадров: %d...",
		KeyProcessed:          "Обработано %d/%d кадров",
		KeySuccess:            "Успех! Извлечено кадров: %d",
		KeyProcessFailed:      "Ошибка обработки",
		KeyComplete:           "Завершено",
		KeyCompleteMessage:    "Извлечено кадров: %d в папку:\n%s",
		KeyError:              "Ошибка",
		KeyErrorOccurred:      "Произошла ошибка:\n%s",
		KeyPleaseEnterURL:     "Пожалуйста, введите URL YouTube",
		KeyInvalidFrameCount:  "Введите корректное количество кадров (1 или больше)",
		KeyErrorOpeningFolder: "Ошибка открытия папки",
		KeySettings:           "Настройки",
		KeyFile:               "Файл",
		KeyLanguage:           "Язык",
		KeyVideoDirectory:     "Папка для видео",
		KeyDefaultFrameCount:  "Количество кадров по умолчанию",
		KeyAutoReveal:         "Открывать папку по завершении",
		KeySave:               "Сохранить",
		KeyCancel:             "Отмена",
		KeyBrowse:             "Обзор",
		KeySettingsSaved:      "Настройки успешно сохранены!",
	}

	// Portuguese texts
	l.texts["pt"] = map[string]string{
		KeyAppTitle:           "Extrator de Quadros do YouTube",
		KeyVideoURL:           "URL do vídeo do YouTube:",
		KeyEnterURL:           "https://youtube.com/watch?v=...",
		KeyFrameCount:         "Número de quadros a extrair:",
		KeyStart:              "Baixar e extrair quadros HQ",
		KeyReady:              "Pronto",
		KeyGettingInfo:        "Obtendo informações do vídeo...",
		KeyDownloadingVideo:   "Baixando vídeo...",
		KeyExtracting:         "Extraindo e melhorando quadros...",
		KeyExtractingCount:    "Extraindo %d quadros...",
		KeyProcessed:          "Processados %d/%d quadros",
		KeySuccess:            "Sucesso! %d quadros extraídos",
		KeyProcessFailed:      "Falha no processo",
		KeyComplete:           "Concluído",
		KeyCompleteMessage:    "%d quadros extraídos com sucesso para:\n%s",
		KeyError:              "Erro",
		KeyErrorOccurred:      "Ocorreu um erro:\n%s",
		KeyPleaseEnterURL:     "Por favor, digite uma URL do YouTube",
		KeyInvalidFrameCount:  "Digite um número válido de quadros (1 ou mais)",
		KeyErrorOpeningFolder: "Erro ao abrir pasta",
		KeySettings:           "Configurações",
		KeyFile:               "Arquivo",
		KeyLanguage:           "Idioma",
		KeyVideoDirectory:     "Diretório de vídeos",
		KeyDefaultFrameCount:  "Número padrão de quadros",
		KeyAutoReveal:         "Abrir pasta ao concluir",
		KeySave:               "Salvar",
		KeyCancel:             "Cancelar",
		KeyBrowse:             "Navegar",
		KeySettingsSaved:      "Configurações salvas com sucesso!",
	}
}
