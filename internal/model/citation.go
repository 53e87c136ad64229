package model

import (
	"fmt"
	"time"
)

// Citation renders the reference string attached to aggregated films:
//
//	"<title>". <publisher> Accessed DD-MM-YYYY. <url>
func Citation(title, publisher, url string, accessed time.Time) string {
	return fmt.Sprintf("\"%s\". %s Accessed %s. %s", title, publisher, accessed.Format("02-01-2006"), url)
}
