package rod

// Functions evaluated through rod. On elements they run with `this` bound to
// the element.
const (
	jsElementInfo = `() => {
		const r = this.getBoundingClientRect();
		return {
			tag: this.tagName || '',
			type: typeof this.type === 'string' ? this.type : '',
			name: typeof this.name === 'string' ? this.name : '',
			id: this.id || '',
			value: this.value == null ? '' : String(this.value),
			readOnly: !!this.readOnly,
			disabled: !!this.disabled,
			checked: !!this.checked,
			width: r.width,
			height: r.height,
		};
	}`

	jsValue   = `() => this.value == null ? '' : String(this.value)`
	jsChecked = `() => !!this.checked`
	jsFocus   = `() => this.focus()`
	jsClick   = `() => this.click()`
	jsHTML    = `() => this.outerHTML`

	jsScrollIntoView = `() => this.scrollIntoView({ behavior: 'smooth', block: 'center' })`
	jsElementScroll  = `(dy) => this.scrollBy({ top: dy, behavior: 'smooth' })`
	jsWindowScroll   = `(dy) => window.scrollBy({ top: dy, behavior: 'smooth' })`

	jsDispatch = `(kind, name) => {
		const init = { bubbles: true, cancelable: true };
		let ev;
		if (kind === 'mouse') ev = new MouseEvent(name, init);
		else if (kind === 'keyboard') ev = new KeyboardEvent(name, init);
		else ev = new Event(name, init);
		this.dispatchEvent(ev);
	}`

	jsSetValue = `(v) => { this.value = v; }`

	// The prototype setter bypasses value setters that frameworks install on
	// the instance.
	jsSetNativeValue = `(v) => {
		const proto = this instanceof HTMLTextAreaElement
			? HTMLTextAreaElement.prototype
			: this instanceof HTMLSelectElement
				? HTMLSelectElement.prototype
				: HTMLInputElement.prototype;
		const desc = Object.getOwnPropertyDescriptor(proto, 'value');
		if (desc && desc.set) desc.set.call(this, v);
		else this.value = v;
	}`

	jsSelectAll = `() => {
		this.focus();
		if (typeof this.select === 'function') this.select();
		else document.execCommand('selectAll', false, null);
	}`

	jsOptions      = `() => Array.from(this.options || []).map(o => ({ value: o.value, text: o.text }))`
	jsSelectOption = `(i) => { this.options[i].selected = true; }`

	jsElementAt = `(x, y) => document.elementFromPoint(x, y)`
	jsNavigate  = `(url) => { window.location.href = url; }`
	jsEval      = `(code) => String((0, eval)(code))`
	jsFocused   = `() => document.visibilityState === 'visible' && document.hasFocus()`
	jsVisible   = `() => document.visibilityState === 'visible'`
)
