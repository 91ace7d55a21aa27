package email

import "fmt"

// Message builders return (subject, htmlBody). The code is embedded
// verbatim; minutes is the configured code lifetime.

func VerificationMessage(company string, code string, minutes int) (string, string) {
	subject := fmt.Sprintf("Verify Your Account - %s", company)
	body := fmt.Sprintf(`<h2>Welcome to %s!</h2>
<p>Your verification OTP is: <strong>%s</strong></p>
<p>This OTP will expire in %d minutes.</p>
<p>If you didn't create an account, please ignore this email.</p>
<p>Best regards,<br>%s Team</p>`, company, code, minutes, company)
	return subject, body
}

func ResendVerificationMessage(company string, code string, minutes int) (string, string) {
	subject := fmt.Sprintf("New Verification OTP - %s", company)
	body := fmt.Sprintf(`<h2>%s - New Verification OTP</h2>
<p>Your new verification OTP is: <strong>%s</strong></p>
<p>This OTP will expire in %d minutes.</p>
<p>If you didn't request this, please ignore this email.</p>`, company, code, minutes)
	return subject, body
}

func ResetMessage(company string, code string, minutes int) (string, string) {
	subject := fmt.Sprintf("Password Reset OTP - %s", company)
	body := fmt.Sprintf(`<h2>Password Reset - %s</h2>
<p>Your OTP for password reset is: <strong>%s</strong></p>
<p>This OTP will expire in %d minutes.</p>
<p>If you didn't request this, please ignore this email.</p>
<p>Best regards,<br>%s Team</p>`, company, code, minutes, company)
	return subject, body
}

func ResendResetMessage(company string, code string, minutes int) (string, string) {
	subject := fmt.Sprintf("New Password Reset OTP - %s", company)
	body := fmt.Sprintf(`<h2>%s - New Password Reset OTP</h2>
<p>Your new password reset OTP is: <strong>%s</strong></p>
<p>This OTP will expire in %d minutes.</p>
<p>If you didn't request this, please ignore this email.</p>`, company, code, minutes)
	return subject, body
}
