package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort string
	PsqlURL  string
	MongoURL string
	MongoDB  string

	RedisURL      string
	RedisPassword string
	RedisDB       int

	CreateTopic   string
	UpdateTopic   string
	ConsumerGroup string
	ConsumerName  string
	Originator    string

	ChallengeAPIURL       string
	ProjectAPIURL         string
	ChallengeTypeAPIURL   string
	TechnologiesAPIURL    string
	PlatformsAPIURL       string
	LegacyChallengeAPIURL string
	AuthToken             string

	Legacy LegacyConstants
}

// LegacyConstants carries the fixed identifiers and defaults the legacy
// system expects. They are configuration, not code, so deployments against
// different legacy instances can override them.
type LegacyConstants struct {
	DefaultConfidentialityType  string
	SubmissionGuidelines        string
	MilestoneID                 int
	TaskTypeID                  string
	TaskTypeAbbreviation        string
	FirstToFinishSubTrack       string
	RegistrationPhaseID         string
	SubmissionPhaseID           string
	CheckpointSubmissionPhaseID string
	ChallengePrizeSetType       string
	CheckpointPrizeSetType      string
}

func LoadConfig() Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("no .env file found, reading configuration from environment")
	}
	config := Config{
		HTTPPort:      getEnv("HTTPPORT", "3334"),
		PsqlURL:       getEnv("PSQLURL", "host=localhost port=5432 user=admin password=password dbname=legacydev sslmode=disable"),
		MongoURL:      getEnv("MONGOURL", ""),
		MongoDB:       getEnv("MONGODB", "legacysync"),
		RedisURL:      getEnv("REDISURL", "localhost:6379"),
		RedisPassword: getEnv("REDISPASSWORD", ""),
		RedisDB:       getEnvInt("REDISDB", 0),

		CreateTopic:   getEnv("CREATETOPIC", "challenge.notification.create"),
		UpdateTopic:   getEnv("UPDATETOPIC", "challenge.notification.update"),
		ConsumerGroup: getEnv("CONSUMERGROUP", "legacy-sync-processor"),
		ConsumerName:  getEnv("CONSUMERNAME", "legacy-sync-1"),
		Originator:    getEnv("ORIGINATOR", "legacy-sync-processor"),

		ChallengeAPIURL:       getEnv("CHALLENGEAPIURL", "http://localhost:4000/v5/challenges"),
		ProjectAPIURL:         getEnv("PROJECTAPIURL", "http://localhost:4000/v5/projects"),
		ChallengeTypeAPIURL:   getEnv("CHALLENGETYPEAPIURL", "http://localhost:4000/v5/challengeTypes"),
		TechnologiesAPIURL:    getEnv("TECHNOLOGIESAPIURL", "http://localhost:4000/v4/technologies"),
		PlatformsAPIURL:       getEnv("PLATFORMSAPIURL", "http://localhost:4000/v4/platforms"),
		LegacyChallengeAPIURL: getEnv("LEGACYCHALLENGEAPIURL", "http://localhost:4000/v4/challenges"),
		AuthToken:             getEnv("AUTHTOKEN", ""),

		Legacy: LegacyConstants{
			DefaultConfidentialityType:  getEnv("DEFAULTCONFIDENTIALITYTYPE", "public"),
			SubmissionGuidelines:        getEnv("SUBMISSIONGUIDELINES", "Please follow the challenge specification when submitting."),
			MilestoneID:                 getEnvInt("MILESTONEID", 1),
			TaskTypeID:                  getEnv("TASKTYPEID", "ecd58c69-238f-43a4-a4bb-d172719b9f31"),
			TaskTypeAbbreviation:        getEnv("TASKTYPEABBREVIATION", "TSK"),
			FirstToFinishSubTrack:       getEnv("FIRSTTOFINISHSUBTRACK", "FIRST_2_FINISH"),
			RegistrationPhaseID:         getEnv("REGISTRATIONPHASEID", "a93544bc-c165-4af4-b55e-18f3593b457a"),
			SubmissionPhaseID:           getEnv("SUBMISSIONPHASEID", "6950164f-3c5e-4bdc-abc8-22aaf5a1bd49"),
			CheckpointSubmissionPhaseID: getEnv("CHECKPOINTSUBMISSIONPHASEID", "d8a2cdbe-84d1-4687-ab75-78a6a7efdcc8"),
			ChallengePrizeSetType:       getEnv("CHALLENGEPRIZESETTYPE", "placement"),
			CheckpointPrizeSetType:      getEnv("CHECKPOINTPRIZESETTYPE", "checkpoint"),
		},
	}

	return config
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
