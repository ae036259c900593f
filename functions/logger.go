package functions

import (
	"fmt"
	"os"
	"time"
)

const crawlLogFile = "crawl.log"

func appendLog(logLine string) {
	f, err := os.OpenFile(crawlLogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Println("Failed to open log file:", err)
		return
	}
	defer f.Close()

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	if _, err := f.WriteString(timestamp + " " + logLine + "\n"); err != nil {
		fmt.Println("Failed to write log:", err)
	}
}
