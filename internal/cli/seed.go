package cli

import (
	"fmt"
	"log"

	"github.com/Levi-LMN/Trivia/internal/config"
	"github.com/Levi-LMN/Trivia/internal/database"
	"github.com/Levi-LMN/Trivia/internal/models"
	"github.com/Levi-LMN/Trivia/internal/services"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// NewSeedCmd loads the sample "Books of Esther & Daniel" quiz session.
func NewSeedCmd() *cobra.Command {
	var recreate bool
	var timeLimit int

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the sample Esther & Daniel quiz session",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			db := database.Connect(cfg)
			if err := database.Migrate(db); err != nil {
				return err
			}
			return seedEstherDaniel(db, recreate, timeLimit)
		},
	}

	cmd.Flags().BoolVar(&recreate, "recreate", false, "delete and re-create the session if it already exists")
	cmd.Flags().IntVar(&timeLimit, "time-limit", 20, "time limit in minutes, 0 for untimed")
	return cmd
}

const seedSessionName = "Books of Esther & Daniel"

func seedEstherDaniel(db *gorm.DB, recreate bool, timeLimit int) error {
	var existing models.QuizSession
	if err := db.Where("name = ?", seedSessionName).First(&existing).Error; err == nil {
		if !recreate {
			return fmt.Errorf("session %q already exists, pass --recreate to replace it", seedSessionName)
		}
		if err := db.Select("Sections").Delete(&existing).Error; err != nil {
			return err
		}
		log.Printf("deleted existing session %q", seedSessionName)
	}

	qs := models.QuizSession{
		Name:             seedSessionName,
		Description:      "Dive deep into the courts of Persia and Babylon and test your knowledge of Esther, Mordecai, Daniel, and the great visions of prophecy.",
		IsActive:         true,
		Randomize:        true,
		TimeLimitMinutes: timeLimit,
		CreatedAt:        services.NowEAT(),
	}
	if err := db.Create(&qs).Error; err != nil {
		return err
	}

	sections := seedSections()
	total := 0
	for i, sec := range sections {
		section := models.Section{
			QuizSessionID: qs.ID,
			Name:          sec.name,
			OrderNum:      i + 1,
		}
		if err := db.Create(&section).Error; err != nil {
			return err
		}
		for j := range sec.questions {
			q := sec.questions[j]
			q.SectionID = section.ID
			q.OrderNum = j
			if err := db.Create(&q).Error; err != nil {
				return err
			}
			total++
		}
	}

	log.Printf("seeded %q: %d sections, %d questions", seedSessionName, len(sections), total)
	return nil
}

type seedSection struct {
	name      string
	questions []models.Question
}

func single(text, a, b, c, d, correct string, points int) models.Question {
	return models.Question{
		Type: models.QuestionTypeSingle, Text: text,
		OptionA: a, OptionB: b, OptionC: c, OptionD: d,
		CorrectAnswer: correct, Points: points,
	}
}

func multi(text, a, b, c, d, correct string, points int) models.Question {
	return models.Question{
		Type: models.QuestionTypeMulti, Text: text,
		OptionA: a, OptionB: b, OptionC: c, OptionD: d,
		CorrectAnswer: correct, Points: points,
	}
}

func fillBlank(text, correct string, blanks models.BlankOptions, points int) models.Question {
	return models.Question{
		Type: models.QuestionTypeFillBlank, Text: text,
		CorrectAnswer: correct, BlankOptions: blanks, Points: points,
	}
}

func seedSections() []seedSection {
	return []seedSection{
		{
			name: "Esther — Story & Characters",
			questions: []models.Question{
				single("Who was King Ahasuerus (Xerxes) ruling over when the story of Esther begins?",
					"Persia and Media", "Babylon and Assyria", "Egypt and Nubia", "Greece and Rome", "A", 1),
				single("Why was Queen Vashti removed from her position?",
					"She was caught stealing from the treasury",
					"She refused to appear before the king when summoned",
					"She plotted against the king",
					"She failed to produce an heir", "B", 1),
				single("What was the name of Esther's cousin and guardian?",
					"Haman", "Mordecai", "Hegai", "Harbona", "B", 1),
				single("What was the penalty for approaching the king unsummoned?",
					"Imprisonment", "Banishment", "Death", "A heavy fine", "C", 1),
				single("How many days did Esther ask the Jews to fast on her behalf before she went to the king?",
					"One day", "Three days", "Seven days", "Ten days", "B", 1),
				single("On what was Haman's plot to destroy the Jews based?",
					"A prophecy", "The casting of lots (Pur)", "A royal decree from birth", "A bribe to the king", "B", 2),
				single("What happened to Haman at the end of the book of Esther?",
					"He was banished from Persia", "He was imprisoned for life",
					"He was hanged on the gallows he built for Mordecai", "He was demoted to servant", "C", 1),
				single("What feast was established to celebrate the Jews' deliverance in Esther?",
					"Passover", "Purim", "Tabernacles", "Firstfruits", "B", 1),
			},
		},
		{
			name: "Esther — Events & Details",
			questions: []models.Question{
				multi("Which of the following are true about Mordecai? (Select ALL that apply)",
					"He was a Benjaminite", "He sat at the king's gate",
					"He bowed down to Haman", "He uncovered a plot to kill the king", "A,B,D", 3),
				multi("What did the king grant Esther when she approached him unbidden? (Select ALL that apply)",
					"He extended his golden sceptre", "He offered up to half his kingdom",
					"He ordered her immediate execution", "He asked what her request was", "A,B,D", 3),
				fillBlank("Esther's Hebrew name was ___ and she was the daughter of ___ of the tribe of ___.",
					"Hadassah|Abihail|Benjamin",
					models.BlankOptions{
						{"Hadassah", "Miriam", "Deborah", "Rahab"},
						{"Abihail", "Mordecai", "Kish", "Shimei"},
						{"Benjamin", "Judah", "Levi", "Dan"},
					}, 3),
				fillBlank("King Ahasuerus reigned from ___ to ___, over ___ provinces.",
					"India|Ethiopia|127",
					models.BlankOptions{
						{"India", "Egypt", "Persia", "Babylon"},
						{"Ethiopia", "Greece", "Rome", "Media"},
						{"127", "120", "100", "150"},
					}, 3),
				fillBlank("The Feast of Purim is celebrated on the ___ and ___ of the month of ___.",
					"fourteenth|fifteenth|Adar",
					models.BlankOptions{
						{"fourteenth", "tenth", "first", "seventh"},
						{"fifteenth", "sixteenth", "twentieth", "thirtieth"},
						{"Adar", "Nisan", "Tishri", "Elul"},
					}, 3),
				single("How tall were the gallows Haman built to hang Mordecai?",
					"Twenty cubits", "Thirty cubits", "Fifty cubits", "One hundred cubits", "C", 2),
				single("What did King Ahasuerus do when he could not sleep the night before Esther's second banquet?",
					"He summoned Haman", "He had the book of records read to him",
					"He prayed at the altar", "He walked in the garden", "B", 2),
			},
		},
		{
			name: "Daniel — Stories & Prophecy",
			questions: []models.Question{
				single("Why did Daniel resolve not to defile himself with the king's food and wine?",
					"He was fasting for a vision", "He followed the Mosaic dietary laws",
					"He was allergic to rich food", "The food was poisoned", "B", 1),
				single("What was the punishment for not bowing to Nebuchadnezzar's golden statue?",
					"Beheading", "Life imprisonment", "Being thrown into a blazing furnace", "Being fed to lions", "C", 1),
				single("What did the handwriting on the wall say during Belshazzar's feast?",
					"HOSANNA, KYRIE, ELEISON", "MENE, MENE, TEKEL, PARSIN",
					"ALPHA, OMEGA, SIGMA", "SHALOM, EMET, HESED", "B", 2),
				single("Why was Daniel thrown into the lions' den?",
					"He stole from the king's treasury",
					"He refused to stop praying to God three times a day",
					"He insulted the king at a feast",
					"He was caught planning an escape", "B", 1),
				single("How many times a day did Daniel kneel and pray toward Jerusalem?",
					"Once", "Twice", "Three times", "Seven times", "C", 1),
				single("What did God do to protect Daniel in the lions' den?",
					"He turned the lions into sheep", "He sent an angel who shut the lions' mouths",
					"He made Daniel invisible to the lions", "He removed the lions from the den", "B", 1),
				single("What is the name of the angel who explained Daniel's visions to him?",
					"Michael", "Raphael", "Gabriel", "Uriel", "C", 2),
			},
		},
		{
			name: "Daniel — Characters & Details",
			questions: []models.Question{
				multi("Which of the following are the Hebrew names of Daniel's three friends? (Select ALL that apply)",
					"Hananiah", "Mishael", "Ezekiel", "Azariah", "A,B,D", 3),
				multi("In Nebuchadnezzar's dream of the statue, which materials were used? (Select ALL that apply)",
					"Gold head", "Silver chest and arms", "Bronze thighs", "Ivory feet", "A,B,C", 3),
				fillBlank("Daniel's Babylonian name was ___, and he served under kings ___ and ___.",
					"Belteshazzar|Nebuchadnezzar|Darius",
					models.BlankOptions{
						{"Belteshazzar", "Shadrach", "Abednego", "Meshach"},
						{"Nebuchadnezzar", "Belshazzar", "Cyrus", "Artaxerxes"},
						{"Darius", "Cyrus", "Xerxes", "Ahasuerus"},
					}, 3),
				fillBlank("The great statue in Nebuchadnezzar's dream had a head of ___, chest of ___, belly of ___, and feet of ___ mixed with clay.",
					"gold|silver|bronze|iron",
					models.BlankOptions{
						{"gold", "silver", "bronze", "iron"},
						{"silver", "gold", "copper", "tin"},
						{"bronze", "iron", "clay", "wood"},
						{"iron", "clay", "stone", "copper"},
					}, 4),
				fillBlank("The ___ weeks prophecy in Daniel chapter 9 refers to ___ years.",
					"seventy|490",
					models.BlankOptions{
						{"seventy", "sixty", "forty", "seven"},
						{"490", "70", "420", "700"},
					}, 4),
				single("How long was Nebuchadnezzar afflicted with madness?",
					"Three months", "One year", "Seven years", "Forty years", "C", 2),
				single("In Daniel's vision, the Ancient of Days sat on a throne described as what?",
					"Made of pure gold", "Ablaze with fire, its wheels were all aflame",
					"Carved from a single sapphire", "Surrounded by a rainbow", "B", 3),
			},
		},
	}
}
