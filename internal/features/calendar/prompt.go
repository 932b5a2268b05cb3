package calendar

const defaultPrompt = `Current date and time: {{.Now}}
{{.History}}
You are {{.Assistant}}'s calendar request parser. Decide whether the user wants to CREATE new events, MODIFY existing events or VIEW what is on the calendar.

User message: """{{.Message}}"""

Use the conversation above to resolve references like "it", "them" or "that event".

Return ONLY valid JSON (no markdown, no explanation) in one of these shapes:

CREATE:
{"action": "create", "events": [{
  "summary": "Brief, clear event title",
  "description": "Details (optional)",
  "start_datetime": "YYYY-MM-DD HH:MM",
  "end_datetime": "YYYY-MM-DD HH:MM",
  "location": "Location if mentioned (optional)",
  "recurrence": "RRULE:... if recurring (optional)",
  "reminders": {"useDefault": false, "overrides": [{"method": "popup", "minutes": 60}]} (optional)
}]}

MODIFY:
{"action": "modify", "search_query": "event name or keywords", "updates": {
  "summary": "new title (optional)",
  "description": "new description (optional)",
  "location": "new location (optional)",
  "start_datetime": "YYYY-MM-DD HH:MM (optional)",
  "end_datetime": "YYYY-MM-DD HH:MM (optional)",
  "reminders": {"useDefault": false, "overrides": [{"method": "popup", "minutes": 60}]} (optional)
}}

Only include start_datetime/end_datetime in a MODIFY when the user moves ONE specific event, and make search_query specific to that event.

VIEW:
{"action": "view", "date_from": "YYYY-MM-DD", "date_to": "YYYY-MM-DD"}

Examples:
"Meeting tomorrow at 3pm" -> {"action": "create", "events": [{"summary": "Meeting", "start_datetime": "2026-02-18 15:00", "end_datetime": "2026-02-18 16:00"}]}
"Team standup every Monday at 9am" -> {"action": "create", "events": [{"summary": "Team Standup", "start_datetime": "2026-02-23 09:00", "end_datetime": "2026-02-23 09:30", "recurrence": "RRULE:FREQ=WEEKLY;BYDAY=MO"}]}
"Rename office hours to tutor hours" -> {"action": "modify", "search_query": "office hours", "updates": {"summary": "Tutor Hours"}}
"Change team meeting location to Zoom" -> {"action": "modify", "search_query": "team meeting", "updates": {"location": "Zoom"}}
"What's on my calendar today?" -> {"action": "view", "date_from": "2026-02-17", "date_to": "2026-02-17"}
"What do I have this week?" -> {"action": "view", "date_from": "2026-02-16", "date_to": "2026-02-22"}

Rules:
- Titles are 2-5 words; put details in the description.
- Parse relative dates ("tomorrow", "next Monday") against the current date.
- "1-2" means 1:00 PM to 2:00 PM unless it is clearly morning ("9-10" is AM).
- Use 24-hour time. Default duration is one hour.
- Reminder minutes: "1 hour" = 60, "30 min" = 30. Only include reminders when asked.
- For MODIFY include only the fields being changed.
- Recurrence MUST start with "RRULE:".`
