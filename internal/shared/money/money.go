package money

import "fmt"

// FormatPaise renders a minor-unit amount as rupees, e.g. 28350 -> "₹283.50".
func FormatPaise(paise int64) string {
	sign := ""
	if paise < 0 {
		sign = "-"
		paise = -paise
	}
	return fmt.Sprintf("%s₹%d.%02d", sign, paise/100, paise%100)
}
