package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// Ограничения на пользовательский ввод.
const (
	MinNameLength           = 2
	MaxNameLength           = 100
	MaxBioLength            = 1000
	MaxLocationLength       = 100
	MaxSkillLength          = 50
	MaxSkillDescription     = 1000
	MaxSkillsCount          = 50
	MaxBookingNotesLength   = 1000
	MinBookingDuration      = 15
	MaxBookingDuration      = 480
	MinMessageLength        = 1
	MaxMessageLength        = 5000
	MaxAvailabilityDays     = 90
	MaxTimesPerAvailability = 24
)

var (
	emailLocalRegex  = regexp.MustCompile(`^[a-z0-9._+-]+$`)
	emailDomainRegex = regexp.MustCompile(`^[a-z0-9.-]+\.[a-z]{2,}$`)
	timeOfDayRegex   = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
)

// ValidateLength проверяет длину строки в символах.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s должен быть не менее %d символов", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s должен быть не более %d символов", fieldName, max)
	}
	return nil
}

// ValidateEmail проверяет формат email.
func ValidateEmail(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return fmt.Errorf("email обязателен")
	}

	local, domain, ok := strings.Cut(email, "@")
	if !ok || strings.Contains(domain, "@") {
		return fmt.Errorf("некорректный формат email")
	}
	if len(local) == 0 || len(local) > 64 {
		return fmt.Errorf("локальная часть email должна быть от 1 до 64 символов")
	}
	if len(domain) == 0 || len(domain) > 255 {
		return fmt.Errorf("доменная часть email должна быть от 1 до 255 символов")
	}
	if !emailLocalRegex.MatchString(local) {
		return fmt.Errorf("локальная часть email содержит недопустимые символы")
	}
	if !emailDomainRegex.MatchString(domain) {
		return fmt.Errorf("доменная часть email имеет некорректный формат")
	}
	return nil
}

// ValidateName проверяет отображаемое имя пользователя.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("имя обязательно")
	}
	return ValidateLength("имя", name, MinNameLength, MaxNameLength)
}

// ValidateBio проверяет текст «о себе».
func ValidateBio(bio string) error {
	return ValidateLength("биография", strings.TrimSpace(bio), 0, MaxBioLength)
}

// ValidateLocation проверяет местоположение.
func ValidateLocation(location string) error {
	return ValidateLength("местоположение", strings.TrimSpace(location), 0, MaxLocationLength)
}

// ValidateSkillName проверяет название навыка.
func ValidateSkillName(skill string) error {
	skill = strings.TrimSpace(skill)
	if skill == "" {
		return fmt.Errorf("название навыка обязательно")
	}
	return ValidateLength("навык", skill, 1, MaxSkillLength)
}

// ValidateSkillDescription проверяет описание навыка.
func ValidateSkillDescription(description string) error {
	return ValidateLength("описание навыка", description, 0, MaxSkillDescription)
}

// ValidateSkillsWanted проверяет список навыков, которые пользователь хочет изучить.
func ValidateSkillsWanted(skills []string) error {
	if len(skills) > MaxSkillsCount {
		return fmt.Errorf("количество навыков не может превышать %d", MaxSkillsCount)
	}

	seen := make(map[string]struct{}, len(skills))
	for _, skill := range skills {
		if err := ValidateSkillName(skill); err != nil {
			return err
		}
		key := strings.ToLower(strings.TrimSpace(skill))
		if _, dup := seen[key]; dup {
			return fmt.Errorf("навык '%s' указан дважды", skill)
		}
		seen[key] = struct{}{}
	}
	return nil
}

// ValidateBookingDuration проверяет длительность занятия в минутах.
func ValidateBookingDuration(minutes int) error {
	if minutes < MinBookingDuration || minutes > MaxBookingDuration {
		return fmt.Errorf("длительность занятия должна быть от %d до %d минут", MinBookingDuration, MaxBookingDuration)
	}
	return nil
}

// ValidateBookingNotes проверяет комментарий к бронированию.
func ValidateBookingNotes(notes string) error {
	return ValidateLength("комментарий", notes, 0, MaxBookingNotesLength)
}

// ValidateMessageContent проверяет содержимое сообщения.
func ValidateMessageContent(content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return fmt.Errorf("сообщение не может быть пустым")
	}
	return ValidateLength("сообщение", content, MinMessageLength, MaxMessageLength)
}

// ValidateDate проверяет дату в формате YYYY-MM-DD.
func ValidateDate(date string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return fmt.Errorf("дата '%s' должна быть в формате YYYY-MM-DD", date)
	}
	return nil
}

// ValidateTimeOfDay проверяет время в формате HH:MM.
func ValidateTimeOfDay(value string) error {
	if !timeOfDayRegex.MatchString(value) {
		return fmt.Errorf("время '%s' должно быть в формате HH:MM", value)
	}
	return nil
}
