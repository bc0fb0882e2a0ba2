package mailer

// Template types
const (
	TemplateWelcomeRestaurant  = "welcome_restaurant"
	TemplateWelcomeVendor      = "welcome_vendor"
	TemplateNewOrder           = "new_order"
	TemplateOrderConfirmation  = "order_confirmation"
	TemplateOrderStatusUpdated = "order_status_updated"
)

type Template struct {
	Subject  string
	HTMLBody string
	TextBody string
}

// defaultTemplates back every template type; a DB EmailTemplate row with
// the same type overrides the built-in.
var defaultTemplates = map[string]Template{
	TemplateWelcomeRestaurant: {
		Subject: "Welcome to BistroBoard, {{.user_name}}!",
		HTMLBody: `<h2>Welcome to BistroBoard!</h2>
<p>Hi {{.user_name}},</p>
<p>Your restaurant account is ready. Browse the vendor marketplace and place your first supply order.</p>
<p><a href="{{.dashboard_url}}">Open your dashboard</a></p>`,
		TextBody: `Hi {{.user_name}},

Your restaurant account is ready. Browse the vendor marketplace and place your first supply order.

Dashboard: {{.dashboard_url}}`,
	},
	TemplateWelcomeVendor: {
		Subject: "Welcome to BistroBoard, {{.user_name}}!",
		HTMLBody: `<h2>Welcome to BistroBoard!</h2>
<p>Hi {{.user_name}},</p>
<p>Your vendor account has been created. Set up your inventory so restaurants can find you in the marketplace.</p>
<p><a href="{{.dashboard_url}}">Open your dashboard</a></p>`,
		TextBody: `Hi {{.user_name}},

Your vendor account has been created. Set up your inventory so restaurants can find you in the marketplace.

Dashboard: {{.dashboard_url}}`,
	},
	TemplateNewOrder: {
		Subject: "New order #{{.order_id}} from {{.restaurant_name}}",
		HTMLBody: `<h2>New Order Received</h2>
<p>Hi {{.vendor_name}},</p>
<p>{{.restaurant_name}} placed order <strong>#{{.order_id}}</strong>:</p>
<pre>{{.items_text}}</pre>
<p>Notes: {{.notes}}</p>
<p><a href="{{.dashboard_url}}">Review the order</a></p>`,
		TextBody: `Hi {{.vendor_name}},

{{.restaurant_name}} placed order #{{.order_id}}:

{{.items_text}}

Notes: {{.notes}}

Review: {{.dashboard_url}}`,
	},
	TemplateOrderConfirmation: {
		Subject: "Order #{{.order_id}} confirmed by {{.vendor_name}}",
		HTMLBody: `<h2>Order Confirmed</h2>
<p>Hi {{.restaurant_name}},</p>
<p>{{.vendor_name}} confirmed your order <strong>#{{.order_id}}</strong>.</p>
<pre>{{.items_text}}</pre>
<p><a href="{{.dashboard_url}}">Track the order</a></p>`,
		TextBody: `Hi {{.restaurant_name}},

{{.vendor_name}} confirmed your order #{{.order_id}}.

{{.items_text}}

Track: {{.dashboard_url}}`,
	},
	TemplateOrderStatusUpdated: {
		Subject: "Order #{{.order_id}} is now {{.status}}",
		HTMLBody: `<h2>Order Update</h2>
<p>Hi {{.restaurant_name}},</p>
<p>Order <strong>#{{.order_id}}</strong> from {{.vendor_name}} is now <strong>{{.status}}</strong>.</p>
<p><a href="{{.dashboard_url}}">View the order</a></p>`,
		TextBody: `Hi {{.restaurant_name}},

Order #{{.order_id}} from {{.vendor_name}} is now {{.status}}.

View: {{.dashboard_url}}`,
	},
}
