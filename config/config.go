package config

import (
	"fmt"
	"net/url"
	"os"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// InitDB opens the MySQL connection described by the DB_* environment
// variables.
func InitDB() (*gorm.DB, error) {
	return gorm.Open(mysql.Open(buildDSN()), &gorm.Config{})
}

// buildDSN derives the connection's time location from CAFE_TIMEZONE, the
// same variable that fixes the loyalty day boundary. Both default to UTC;
// if they disagreed, DATE(last_visit) and the service clock could fall on
// different calendar days around midnight.
func buildDSN() string {
	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "3306")
	user := getEnv("DB_USER", "root")
	pass := os.Getenv("DB_PASSWORD")
	name := getEnv("DB_NAME", "kian_cafe")
	loc := getEnv("CAFE_TIMEZONE", "UTC")

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=%s",
		user, pass, host, port, name, url.QueryEscape(loc))
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
