// Package htmlform hosts validation on server-side HTML. A page is parsed with
// golang.org/x/net/html, a form is selected by id, posted values are filled
// into its inputs, and validation feedback is written back as class markers
// plus a <span class="v-error-text"> slot in each input's parent. Rendering the
// document then yields the page with inline errors.
package htmlform
