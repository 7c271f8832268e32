package notifier

import "fmt"

const (
	subjectWelcome = "Welcome to Royal Shades Autos"
	subjectReset   = "Password reset request"
)

// renderWelcome builds the verification email. The URL embeds the raw
// verification token.
func renderWelcome(fullName, url string) string {
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Welcome to Royal Shades Autos, %s!</h2>
  <p>Thanks for creating an account. Please verify your email address to get started.</p>
  <p style="margin: 24px 0;">
    <a href="%s" style="background-color: #1a1a2e; color: #ffffff; padding: 12px 24px; text-decoration: none; border-radius: 4px;">Verify my email</a>
  </p>
  <p>This link expires in 24 hours. If you did not create this account, you can ignore this email.</p>
</div>`, fullName, url)
}

// renderReset builds the password reset email.
func renderReset(fullName, url string) string {
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Hi %s,</h2>
  <p>We received a request to reset your password.</p>
  <p style="margin: 24px 0;">
    <a href="%s" style="background-color: #1a1a2e; color: #ffffff; padding: 12px 24px; text-decoration: none; border-radius: 4px;">Reset my password</a>
  </p>
  <p>This link expires in 24 hours. If you did not request a reset, your password is still safe and no action is needed.</p>
</div>`, fullName, url)
}
