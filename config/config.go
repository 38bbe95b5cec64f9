package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// This function will Load the ENVIORNMENT VARIABLES from .env if GO_ENV variable is not set
func LoadENV() error {
	goEnv := os.Getenv("GO_ENV")

	if goEnv == "" || goEnv == "development" {
		err := godotenv.Load()
		if err != nil {
			return err
		}
	}

	return nil
}

type EnviornmentVariable struct {
	// All variables
	GO_ENV       string
	DB_USER_NAME string
	DB_PASSWORD  string
	DB_NAME      string
	DB_HOST      string
	DB_PORT      string
	DB_SSL_MODE  string
	PORT         int
	// CORS
	ALLOWED_ORIGINS string
	// JWT Configuration
	JWT_SECRET string
	JWT_ISSUER string
	// Redis Configuration
	REDIS_URL string
	// TON Ledger Configuration
	TON_NETWORK          string // mainnet | testnet
	TON_WALLET_ADDRESS   string // distribution wallet
	TON_WALLET_KEY       string
	BASE_REFERRAL_REWARD float64
}

func Get() (*EnviornmentVariable, error) {

	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil {
		port = 8080
	}

	// Database defaults
	dbHost := os.Getenv("DB_HOST")
	if dbHost == "" {
		dbHost = "localhost"
	}

	dbPort := os.Getenv("DB_PORT")
	if dbPort == "" {
		dbPort = "5432"
	}

	tonNetwork := os.Getenv("TON_NETWORK")
	if tonNetwork == "" {
		tonNetwork = "testnet"
	}

	baseReferralReward, err := strconv.ParseFloat(os.Getenv("BASE_REFERRAL_REWARD"), 64)
	if err != nil || baseReferralReward <= 0 {
		baseReferralReward = 0.05
	}

	envVariables := &EnviornmentVariable{
		GO_ENV:       os.Getenv("GO_ENV"),
		DB_USER_NAME: os.Getenv("DB_USER_NAME"),
		DB_PASSWORD:  os.Getenv("DB_PASSWORD"),
		DB_NAME:      os.Getenv("DB_NAME"),
		DB_HOST:      dbHost,
		DB_PORT:      dbPort,
		DB_SSL_MODE:  os.Getenv("DB_SSL_MODE"),
		PORT:         port,
		// CORS
		ALLOWED_ORIGINS: os.Getenv("ALLOWED_ORIGINS"),
		// JWT
		JWT_SECRET: os.Getenv("JWT_SECRET"),
		JWT_ISSUER: os.Getenv("JWT_ISSUER"),
		// Redis
		REDIS_URL: os.Getenv("REDIS_URL"),
		// TON
		TON_NETWORK:          tonNetwork,
		TON_WALLET_ADDRESS:   os.Getenv("TON_WALLET_ADDRESS"),
		TON_WALLET_KEY:       os.Getenv("TON_WALLET_KEY"),
		BASE_REFERRAL_REWARD: baseReferralReward,
	}

	return envVariables, nil
}
