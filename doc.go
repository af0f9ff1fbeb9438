// Copyright 2023 uhppoted@twyst.co.za. All rights reserved.
// Use of this source code is governed by an MIT-style license
// that can be found in the LICENSE file.

/*
Package uhppoted-app-sheetview is a small web application for browsing a set of Google Sheets workbooks.

A user signs in with a user name, after which the home page lists the configured workbooks and their
worksheets. Each worksheet is rendered as an HTML table of its records, with the first row of the
worksheet as the column headers.

uhppoted-app-sheetview supports the following commands:

  - run, to run the web server
  - authorise, to authorise access to Google Sheets with OAuth2 client credentials
  - get, to download a Google Sheets worksheet as a TSV or XLSX file
  - revisions, to list the latest revision of each configured workbook
  - version, to display the current version
*/
package sheetview
