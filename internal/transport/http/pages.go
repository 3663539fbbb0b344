package http

// DefaultPages are the built-in demo pages, replaced by a theme's
// PageSource in a real install.
var DefaultPages = MapPages{
	"index": `<html>
<body>
<ion:user>
	<ion:logged>
		<p>Welcome back, <ion:name />.</p>
		<p>Group: <ion:group:title /></p>
		<form method="post" action="/index">
			<input type="hidden" name="form" value="logout" />
			<button>Log out</button>
		</form>
	</ion:logged>
	<ion:logged is="false">
		<form method="post" action="/index">
			<input type="hidden" name="form" value="login" />
			<input name="email" placeholder="email" />
			<input name="password" type="password" placeholder="password" />
			<button>Log in</button>
		</form>
	</ion:logged>
</ion:user>
</body>
</html>`,

	"register": `<html>
<body>
<ion:user>
	<form method="post" action="/register">
		<input type="hidden" name="form" value="register" />
		<input name="firstname" placeholder="first name" />
		<input name="lastname" placeholder="last name" />
		<input name="email" placeholder="email" />
		<input name="password" type="password" placeholder="password" />
		<button>Register</button>
	</form>
</ion:user>
</body>
</html>`,

	"password": `<html>
<body>
<ion:user>
	<form method="post" action="/password">
		<input type="hidden" name="form" value="password" />
		<input name="email" placeholder="email" />
		<button>Send me a new password</button>
	</form>
</ion:user>
</body>
</html>`,
}
