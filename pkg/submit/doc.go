// Package submit intercepts form submission: on a trigger click it prevents
// the default action, validates the form, and either stops (inline errors are
// already shown) or fills in schema defaults and performs the real submission.
//
//	ctrl := submit.New(submit.WithLogger(logger)).Setup(f, formSchema)
//	defer ctrl.Destroy()
package submit
