package rod

// Fixtures served over httptest to a headless browser.
const (
	BasicHTML = `<!DOCTYPE html>
<html>
<head><title>Test Page</title></head>
<body>
	<h1>Hello World</h1>
	<!-- comment -->
	<script>window.answer = 42;</script>
</body>
</html>`

	FormHTML = `<!DOCTYPE html>
<html>
<head><title>Form</title></head>
<body>
	<form id="testForm">
		<input id="hidden" type="hidden" name="token" value="t" />
		<input id="username" type="text" name="username" value="old" />
		<input id="ghost" type="text" style="display:none" />
		<input id="password" type="password" name="password" />
		<input id="locked" type="text" readonly />
		<textarea id="notes"></textarea>
		<input id="agree" type="checkbox" />
		<input id="plan-a" type="radio" name="plan" value="a" />
		<input id="plan-b" type="radio" name="plan" value="b" checked />
		<select id="size">
			<option value="s">Small</option>
			<option value="m">Medium</option>
			<option value="42">Large</option>
		</select>
		<button id="submit" type="submit">Submit</button>
	</form>
	<div id="log"></div>
	<script>
		const log = document.getElementById('log');
		document.getElementById('size').addEventListener('change', e => {
			log.textContent += 'change:' + e.target.value + ';';
		});
		document.getElementById('agree').addEventListener('change', () => {
			log.textContent += 'agree;';
		});
	</script>
</body>
</html>`

	InteractiveHTML = `<!DOCTYPE html>
<html>
<body style="margin:0">
	<button id="btn" style="position:absolute;left:0;top:0;width:200px;height:100px">Click Me</button>
	<div id="result"></div>
	<script>
		const btn = document.getElementById('btn');
		const result = document.getElementById('result');
		['mouseover', 'mousedown', 'click', 'mouseup'].forEach(name => {
			btn.addEventListener(name, () => { result.textContent += name + ';'; });
		});
	</script>
</body>
</html>`

	// The instance setter drops writes, like a controlled input in a UI
	// framework; reads still go to the real value.
	ControlledInputHTML = `<!DOCTYPE html>
<html>
<body>
	<input id="controlled" type="text" value="before" />
	<input id="stubborn" type="text" />
	<script>
		const desc = Object.getOwnPropertyDescriptor(HTMLInputElement.prototype, 'value');
		Object.defineProperty(document.getElementById('controlled'), 'value', {
			get() { return desc.get.call(this); },
			set(v) {},
		});
		Object.defineProperty(document.getElementById('stubborn'), 'value', {
			get() { return ''; },
			set(v) {},
		});
	</script>
</body>
</html>`

	ScrollableHTML = `<!DOCTYPE html>
<html>
<body style="height: 5000px;">
	<h1 id="top">Top of Page</h1>
	<div id="box" style="height:100px;overflow:auto"><div style="height:2000px">inner</div></div>
	<div style="margin-top: 2000px;" id="middle">Middle</div>
</body>
</html>`
)
