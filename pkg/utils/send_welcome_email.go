package utils

import (
	"fmt"
	"html"
	"time"
)

func (m *Mailer) SendWelcomeEmail(to, username, appURL string) error {
	subject := fmt.Sprintf("Welcome to Expense Tracker, %s!", username)

	body := fmt.Sprintf(`
	<!DOCTYPE html>
	<html lang="en">
	<head>
		<meta charset="UTF-8" />
		<meta name="viewport" content="width=device-width, initial-scale=1.0" />
		<title>Welcome to Expense Tracker</title>
		<style>
			body {
				font-family: 'Segoe UI', Roboto, Arial, sans-serif;
				background-color: #f6f8f7;
				margin: 0;
				padding: 0;
				color: #333333;
			}
			.container {
				max-width: 560px;
				margin: 30px auto;
				background: #ffffff;
				border-radius: 12px;
				box-shadow: 0 4px 16px rgba(0, 0, 0, 0.08);
				overflow: hidden;
				border-top: 5px solid #1d5c8f;
			}
			.header {
				background-color: #1d5c8f;
				color: #ffffff;
				text-align: center;
				padding: 24px 12px;
			}
			.header h1 {
				margin: 0;
				font-size: 22px;
			}
			.content {
				padding: 24px 28px;
				font-size: 15px;
				line-height: 1.7;
			}
			.cta {
				margin: 28px 0;
				text-align: center;
			}
			.cta a {
				background-color: #1d5c8f;
				color: #ffffff;
				text-decoration: none;
				padding: 12px 30px;
				border-radius: 8px;
				font-weight: 600;
			}
			.footer {
				background: #f0f4f8;
				text-align: center;
				padding: 16px;
				font-size: 12px;
				color: #777777;
			}
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>Welcome aboard</h1>
			</div>
			<div class="content">
				<p>Hey %s,</p>
				<p>Your account is ready. Record what you spend, group it by category and see where the money goes each week, month and year.</p>
				<ul>
					<li>Use the built-in categories or create your own.</li>
					<li>Filter expenses by name, category, amount or date.</li>
					<li>Check the totals per category for any period.</li>
				</ul>
				<div class="cta">
					<a href="%s" target="_blank">Open Expense Tracker</a>
				</div>
			</div>
			<div class="footer">
				&copy; %d Expense Tracker
			</div>
		</div>
	</body>
	</html>
	`, html.EscapeString(username), html.EscapeString(appURL), time.Now().Year())

	return m.SendEmail(to, subject, body)
}
