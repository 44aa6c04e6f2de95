package services

// QuestionService serves the static profile-setup question banks. Content is
// fixed at build time; there is nothing to fetch or persist.
type QuestionService struct{}

// TwoTruthsExample is a category of sample statements for the
// two-truths-one-lie prompt.
type TwoTruthsExample struct {
	Category string   `json:"category"`
	Examples []string `json:"examples"`
}

// QuestionBanks bundles every bank for the /all endpoint.
type QuestionBanks struct {
	IceBreakers             []string           `json:"iceBreakers"`
	WouldYouRatherQuestions []WouldYouRather   `json:"wouldYouRatherQuestions"`
	TwoTruthsOneLieExamples []TwoTruthsExample `json:"twoTruthsOneLieExamples"`
}

func (qs *QuestionService) All() QuestionBanks {
	return QuestionBanks{
		IceBreakers:             qs.IceBreakers(),
		WouldYouRatherQuestions: qs.WouldYouRather(),
		TwoTruthsOneLieExamples: qs.TwoTruths(),
	}
}

func (qs *QuestionService) IceBreakers() []string {
	return profileIceBreakers
}

func (qs *QuestionService) WouldYouRather() []WouldYouRather {
	return profileWouldYouRather
}

func (qs *QuestionService) TwoTruths() []TwoTruthsExample {
	return twoTruthsOneLieExamples
}

var profileIceBreakers = []string{
	"What's your favorite way to spend a weekend?",
	"Coffee or tea?",
	"If you could travel anywhere right now, where would you go?",
	"What's your go-to comfort food?",
	"Morning person or night owl?",
	"Beach vacation or mountain adventure?",
	"What's the last show you binge-watched?",
	"Cats or dogs?",
	"What's your hidden talent?",
	"If you could have dinner with anyone, who would it be?",
	"What's your favorite season and why?",
	"Sweet or savory snacks?",
	"What's your dream job?",
	"Indoor or outdoor activities?",
	"What's your favorite type of music?",
	"Early bird or procrastinator?",
	"What's your biggest fear?",
	"If you could learn any skill instantly, what would it be?",
	"What's your favorite childhood memory?",
	"Pizza or burgers?",
}

var profileWouldYouRather = []WouldYouRather{
	{Option1: "Have the ability to fly", Option2: "Be invisible"},
	{Option1: "Always be 10 minutes late", Option2: "Always be 20 minutes early"},
	{Option1: "Live without music", Option2: "Live without movies"},
	{Option1: "Have unlimited money", Option2: "Have unlimited time"},
	{Option1: "Be able to speak all languages", Option2: "Be able to play all instruments"},
	{Option1: "Live in the city", Option2: "Live in the countryside"},
	{Option1: "Have a rewind button for life", Option2: "Have a pause button for life"},
	{Option1: "Be famous", Option2: "Be wealthy but unknown"},
	{Option1: "Never use social media again", Option2: "Never watch TV/movies again"},
	{Option1: "Travel to the past", Option2: "Travel to the future"},
	{Option1: "Be the funniest person", Option2: "Be the smartest person"},
	{Option1: "Have a personal chef", Option2: "Have a personal trainer"},
	{Option1: "Live on the beach", Option2: "Live in the mountains"},
	{Option1: "Read minds", Option2: "See the future"},
	{Option1: "Have super strength", Option2: "Have super speed"},
	{Option1: "Never feel physical pain", Option2: "Never feel emotional pain"},
	{Option1: "Live without internet", Option2: "Live without air conditioning"},
	{Option1: "Always know when someone is lying", Option2: "Always get away with lying"},
	{Option1: "Have a photographic memory", Option2: "Have the ability to forget anything you want"},
	{Option1: "Work your dream job for normal pay", Option2: "Work a boring job for triple pay"},
}

var twoTruthsOneLieExamples = []TwoTruthsExample{
	{
		Category: "Travel",
		Examples: []string{
			"I've been to over 10 countries",
			"I've never been on a plane",
			"I lived abroad for a year",
		},
	},
	{
		Category: "Skills",
		Examples: []string{
			"I can speak 3 languages",
			"I know how to juggle",
			"I can solve a Rubik's cube",
		},
	},
	{
		Category: "Food",
		Examples: []string{
			"I've never tried sushi",
			"I once ate a ghost pepper",
			"I bake my own bread",
		},
	},
	{
		Category: "Adventures",
		Examples: []string{
			"I've gone skydiving",
			"I've run a marathon",
			"I've met a celebrity",
		},
	},
}
