package notify

// DefaultViews are the built-in email bodies, overridable per site through
// a custom ViewSource.
var DefaultViews = MapViews{
	"register": `<html>
<body>
<h2><ion:email_subject /></h2>
<p>Hello <ion:user:name />,</p>
<p>Your account was created with this email address: <ion:user:email /></p>
<p>Your password: <ion:user:password /></p>
<p>Activation key: <ion:user:activation_key /></p>
</body>
</html>`,

	"register_notify": `<html>
<body>
<h2><ion:email_subject /></h2>
<p>A new account was created:</p>
<p><ion:user:name /> &lt;<ion:user:email />&gt;, group <ion:user:group:title /></p>
</body>
</html>`,

	"password": `<html>
<body>
<h2><ion:email_subject /></h2>
<p>Hello <ion:user:name />,</p>
<p>Your new password: <ion:user:password /></p>
<p>Activation key: <ion:user:activation_key /></p>
</body>
</html>`,
}
