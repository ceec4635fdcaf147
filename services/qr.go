package services

import (
	"fmt"
	"math"
	"net/url"
	"strconv"

	"github.com/lailatuandayhotro-prog/sharebill/config"
	"github.com/lailatuandayhotro-prog/sharebill/models"
)

// BuildTransferQRURL assembles the VietQR image URL prompting a bank transfer
// of the given amount to the payer's account. The image itself is rendered by
// the external VietQR service; this only builds the URL. Returns an empty
// string when the payer has no bank details on file.
func BuildTransferQRURL(payer models.User, amount float64, memo string) string {
	if payer.BankBin == "" || payer.BankAccountNo == "" {
		return ""
	}

	// VietQR wants the plain whole-unit amount, truncated like the display
	params := url.Values{}
	params.Set("amount", strconv.FormatInt(int64(math.Floor(amount)), 10))
	if memo != "" {
		params.Set("addInfo", memo)
	}
	if payer.BankAccountName != "" {
		params.Set("accountName", payer.BankAccountName)
	}

	return fmt.Sprintf("%s/%s-%s-compact2.png?%s",
		config.AppConfig.VietQRBaseURL, payer.BankBin, payer.BankAccountNo, params.Encode())
}
