package services

import (
	"testing"

	"github.com/lailatuandayhotro-prog/sharebill/config"
	"github.com/lailatuandayhotro-prog/sharebill/models"
)

func TestBuildTransferQRURL(t *testing.T) {
	config.AppConfig = &config.Config{VietQRBaseURL: "https://img.vietqr.io/image"}

	payer := models.User{
		Name:            "An",
		BankBin:         "970422",
		BankAccountNo:   "0123456789",
		BankAccountName: "NGUYEN VAN AN",
	}

	got := BuildTransferQRURL(payer, 300000.75, "Dinner 12/08")
	want := "https://img.vietqr.io/image/970422-0123456789-compact2.png?accountName=NGUYEN+VAN+AN&addInfo=Dinner+12%2F08&amount=300000"
	if got != want {
		t.Errorf("BuildTransferQRURL() = %q, want %q", got, want)
	}
}

func TestBuildTransferQRURLWithoutBankDetails(t *testing.T) {
	config.AppConfig = &config.Config{VietQRBaseURL: "https://img.vietqr.io/image"}

	if got := BuildTransferQRURL(models.User{Name: "An"}, 100000, "x"); got != "" {
		t.Errorf("expected empty URL for user without bank details, got %q", got)
	}
}
