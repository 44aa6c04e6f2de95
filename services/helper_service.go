package services

import (
	"errors"
	"math/rand"
)

// Helper categories requestable during a session.
const (
	HelperIcebreaker     = "icebreaker"
	HelperWouldYouRather = "wouldyourather"
	HelperTopic          = "topic"
)

// ErrNoContent is returned when a category has no bank or the bank is empty.
var ErrNoContent = errors.New("no content available")

// WouldYouRather is a two-option dilemma question.
type WouldYouRather struct {
	Option1 string `json:"option1"`
	Option2 string `json:"option2"`
}

// HelperService hands out conversation starters during a live session.
// Selection is uniform with replacement; banks never exhaust.
type HelperService struct{}

// Get returns a random item from the category's bank.
func (hs *HelperService) Get(category string) (interface{}, error) {
	switch category {
	case HelperIcebreaker:
		if len(iceBreakers) == 0 {
			return nil, ErrNoContent
		}
		return iceBreakers[rand.Intn(len(iceBreakers))], nil
	case HelperWouldYouRather:
		if len(wouldYouRatherQuestions) == 0 {
			return nil, ErrNoContent
		}
		return wouldYouRatherQuestions[rand.Intn(len(wouldYouRatherQuestions))], nil
	case HelperTopic:
		if len(topics) == 0 {
			return nil, ErrNoContent
		}
		return topics[rand.Intn(len(topics))], nil
	default:
		return nil, ErrNoContent
	}
}

var iceBreakers = []string{
	"What's the most spontaneous thing you've ever done?",
	"If you could have dinner with anyone, dead or alive, who would it be?",
	"What's your hidden talent?",
	"What's the best advice you've ever received?",
	"If you could live anywhere in the world, where would it be?",
	"What's your favorite way to spend a weekend?",
	"What's something you've always wanted to try?",
	"What's your go-to karaoke song?",
	"If you won the lottery tomorrow, what's the first thing you'd do?",
	"What's the most interesting place you've traveled to?",
	"What's your favorite childhood memory?",
	"If you could master any skill instantly, what would it be?",
	"What's your ideal vacation?",
	"What's the last book you read?",
	"Do you have any pets? Tell me about them!",
	"What's your favorite type of music?",
	"Are you a morning person or a night owl?",
	"What's your favorite season and why?",
	"What's the best concert you've been to?",
	"What's your dream job?",
}

var wouldYouRatherQuestions = []WouldYouRather{
	{Option1: "have the ability to fly", Option2: "be invisible"},
	{Option1: "live in the city", Option2: "live in the countryside"},
	{Option1: "be able to speak all languages", Option2: "be able to play all instruments"},
	{Option1: "travel to the past", Option2: "travel to the future"},
	{Option1: "have unlimited money", Option2: "have unlimited time"},
	{Option1: "be famous", Option2: "be anonymous but wealthy"},
	{Option1: "always be 10 minutes late", Option2: "always be 20 minutes early"},
	{Option1: "have a rewind button for life", Option2: "have a pause button for life"},
	{Option1: "live without internet", Option2: "live without AC/heating"},
	{Option1: "be able to read minds", Option2: "be able to see the future"},
	{Option1: "work from home forever", Option2: "travel for work constantly"},
	{Option1: "have a personal chef", Option2: "have a personal trainer"},
	{Option1: "live on the beach", Option2: "live in the mountains"},
	{Option1: "never use social media again", Option2: "never watch TV/movies again"},
	{Option1: "be the funniest person", Option2: "be the smartest person"},
}

var topics = []string{
	"Travel adventures",
	"Favorite foods",
	"Dream destinations",
	"Hobbies and interests",
	"Career goals",
	"Favorite movies/TV shows",
	"Music preferences",
	"Weekend activities",
	"Childhood memories",
	"Future plans",
	"Pet peeves",
	"Bucket list items",
	"Favorite books",
	"Sports and fitness",
	"Cooking skills",
	"Technology",
	"Art and creativity",
	"Family traditions",
	"Life goals",
	"Funny stories",
}
