package enums

import "fmt"

// StoryType is the content format the generator is asked for.
type StoryType string

const (
	StoryTypeShortStory      StoryType = "Short story"
	StoryTypeMovieScene      StoryType = "Movie scene"
	StoryTypeDialogue        StoryType = "Dialogue"
	StoryTypeVoiceOver       StoryType = "Voice-over"
	StoryTypeShortVideo      StoryType = "TikTok/Reels"
	StoryTypeLoveStory       StoryType = "Love Story"
	StoryTypeHorrorStory     StoryType = "Horror Story"
	StoryTypeKidsStory       StoryType = "Kids Story"
	StoryTypeViralStrategist StoryType = "Viral Strategist"
)

var validStoryTypes = []StoryType{
	StoryTypeShortStory,
	StoryTypeMovieScene,
	StoryTypeDialogue,
	StoryTypeVoiceOver,
	StoryTypeShortVideo,
	StoryTypeLoveStory,
	StoryTypeHorrorStory,
	StoryTypeKidsStory,
	StoryTypeViralStrategist,
}

func (s StoryType) IsValid() bool {
	for _, candidate := range validStoryTypes {
		if candidate == s {
			return true
		}
	}
	return false
}

type Mood string

const (
	MoodHappy        Mood = "Happy"
	MoodSad          Mood = "Sad"
	MoodRomantic     Mood = "Romantic"
	MoodHorror       Mood = "Horror"
	MoodMotivational Mood = "Motivational"
)

var validMoods = []Mood{MoodHappy, MoodSad, MoodRomantic, MoodHorror, MoodMotivational}

func (m Mood) IsValid() bool {
	for _, candidate := range validMoods {
		if candidate == m {
			return true
		}
	}
	return false
}

type Language string

const (
	LanguageEnglish       Language = "English"
	LanguageSimpleEnglish Language = "Simple English"
	LanguageUrdu          Language = "Urdu"
)

var validLanguages = []Language{LanguageEnglish, LanguageSimpleEnglish, LanguageUrdu}

func (l Language) IsValid() bool {
	for _, candidate := range validLanguages {
		if candidate == l {
			return true
		}
	}
	return false
}

type Length string

const (
	LengthShort  Length = "Short"
	LengthMedium Length = "Medium"
	LengthLong   Length = "Long"
)

var validLengths = []Length{LengthShort, LengthMedium, LengthLong}

func (l Length) IsValid() bool {
	for _, candidate := range validLengths {
		if candidate == l {
			return true
		}
	}
	return false
}

// GenMode tells the generator whether to start fresh or build on prior content.
type GenMode string

const (
	GenModeNew      GenMode = "new"
	GenModeRewrite  GenMode = "rewrite"
	GenModeContinue GenMode = "continue"
)

var validGenModes = []GenMode{GenModeNew, GenModeRewrite, GenModeContinue}

func (g GenMode) IsValid() bool {
	for _, candidate := range validGenModes {
		if candidate == g {
			return true
		}
	}
	return false
}

// ParseGenMode converts raw input into a GenMode; empty input means GenModeNew.
func ParseGenMode(value string) (GenMode, error) {
	if value == "" {
		return GenModeNew, nil
	}
	for _, candidate := range validGenModes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid generation mode %q", value)
}
