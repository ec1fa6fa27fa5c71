// File: internal/mailer/templates.go
package mailer

import "html/template"

var verificationTemplate = template.Must(template.New("verification").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2>Hi {{.FirstName}}!</h2>
    <p>Thank you for signing up. To complete your registration, please verify your email address.</p>
    <p style="text-align: center;">
      <a href="{{.Link}}" style="display: inline-block; background: #667eea; color: white; padding: 12px 30px; text-decoration: none; border-radius: 5px;">Verify Email Address</a>
    </p>
    <p>If the button doesn't work, copy and paste this link into your browser:</p>
    <p style="word-break: break-all; color: #667eea;">{{.Link}}</p>
    <p><strong>This link will expire in 24 hours.</strong></p>
    <p>If you didn't create an account with us, please ignore this email.</p>
  </div>
</body>
</html>`))

var welcomeTemplate = template.Must(template.New("welcome").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2>Hi {{.FirstName}}!</h2>
    <p>Congratulations! Your email has been verified and your account is now active.</p>
    <p>You can now:</p>
    <ul>
      <li>Access your dashboard</li>
      <li>Update your profile</li>
      <li>Submit payment requests</li>
      <li>Track your work items</li>
    </ul>
    <p>Welcome aboard!</p>
  </div>
</body>
</html>`))

var passwordResetTemplate = template.Must(template.New("password_reset").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2>Hi {{.FirstName}}!</h2>
    <p>We received a request to reset your password. Click the button below to create a new password:</p>
    <p style="text-align: center;">
      <a href="{{.Link}}" style="display: inline-block; background: #667eea; color: white; padding: 12px 30px; text-decoration: none; border-radius: 5px;">Reset Password</a>
    </p>
    <p>If the button doesn't work, copy and paste this link into your browser:</p>
    <p style="word-break: break-all; color: #667eea;">{{.Link}}</p>
    <p><strong>This link will expire in 1 hour.</strong></p>
    <p>If you didn't request a password reset, please ignore this email. Your password will remain unchanged.</p>
  </div>
</body>
</html>`))
