package services

// actionEmailHTML is the shared branded template for every email the service
// sends: a title, a short body, and a single action button.
const actionEmailHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>%s</title>
<style>
  body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif; line-height: 1.6; color: #333; background-color: #f8f9fa; margin: 0; padding: 20px; }
  .container { max-width: 500px; margin: auto; background: #ffffff; border: 1px solid #e9ecef; border-radius: 8px; overflow: hidden; }
  .header { background-color: #2e7d5b; color: white; padding: 20px; text-align: center; }
  .header h1 { margin: 0; font-size: 24px; }
  .content { padding: 30px; text-align: center; }
  .button { display: inline-block; background-color: #2e7d5b; color: #ffffff; text-decoration: none; font-weight: bold; padding: 14px 28px; border-radius: 5px; margin: 20px 0; }
  .footer { background-color: #f8f9fa; padding: 20px; text-align: center; font-size: 12px; color: #6c757d; }
  p { margin-bottom: 1em; }
</style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>%s</h1>
    </div>
    <div class="content">
      <p>%s</p>
      <a class="button" href="%s">%s</a>
      <p>If you did not expect this email, you can safely ignore it.</p>
    </div>
    <div class="footer">
      © %d ExpenseBuddy. All rights reserved.
    </div>
  </div>
</body>
</html>`
