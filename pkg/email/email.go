// pkg/email/email.go
package email

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"time"
)

type EmailService struct {
	apiKey    string
	from      string
	templates *template.Template
}

type EmailData struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Html    string `json:"html"`
}

// Template data structures
type VerificationEmailData struct {
	Salutation string
	Token      string
	ExpiresIn  int
}

type SubscriptionStartedData struct {
	Name         string
	ProductName  string
	TierName     string
	BillingCycle string
	Amount       string
	TrialEnd     *time.Time
}

func NewEmailService(apiKey, from string) (*EmailService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend API key is required")
	}

	templates, err := loadTemplates()
	if err != nil {
		return nil, fmt.Errorf("error loading email templates: %v", err)
	}

	return &EmailService{
		apiKey:    apiKey,
		from:      from,
		templates: templates,
	}, nil
}

func (s *EmailService) sendTemplateEmail(to, subject, templateName string, data interface{}) error {
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, templateName, data); err != nil {
		return fmt.Errorf("template execution error: %v", err)
	}

	emailData := EmailData{
		From:    s.from,
		To:      to,
		Subject: subject,
		Html:    body.String(),
	}

	jsonData, err := json.Marshal(emailData)
	if err != nil {
		return fmt.Errorf("error marshaling email data: %v", err)
	}

	req, err := http.NewRequest("POST", "https://api.resend.com/emails", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("error creating request: %v", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("error sending email: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response body: %v", err)
	}

	log.Printf("Resend API response: Status: %d", resp.StatusCode)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("resend API error: %s", string(respBody))
	}

	return nil
}

// Email sending methods
func (s *EmailService) SendVerificationEmail(email, salutation, token string, expiresIn int) error {
	data := VerificationEmailData{
		Salutation: salutation,
		Token:      token,
		ExpiresIn:  expiresIn,
	}
	return s.sendTemplateEmail(email, "Verify your email", "verification.html", data)
}

func (s *EmailService) SendSubscriptionStartedEmail(
	email, name, productName, tierName, billingCycle, amount string,
	trialEnd *time.Time,
) error {
	data := SubscriptionStartedData{
		Name:         name,
		ProductName:  productName,
		TierName:     tierName,
		BillingCycle: billingCycle,
		Amount:       amount,
		TrialEnd:     trialEnd,
	}
	return s.sendTemplateEmail(email, "Your subscription is active! 🎉", "subscription_started.html", data)
}
